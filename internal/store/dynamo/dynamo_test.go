package dynamo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrKriegler/insureflow/internal/core"
)

func TestCancellationCode(t *testing.T) {
	tce := &types.TransactionCanceledException{
		CancellationReasons: []types.CancellationReason{
			{Code: aws.String("ConditionalCheckFailed")},
			{Code: aws.String("None")},
		},
	}

	assert.Equal(t, "ConditionalCheckFailed", cancellationCode(tce, 0))
	assert.Equal(t, "None", cancellationCode(fmt.Errorf("wrapped: %w", tce), 1))
	assert.Equal(t, "", cancellationCode(tce, 2))
	assert.Equal(t, "", cancellationCode(errors.New("boom"), 0))
}

func TestTimeLayoutSortsLexicographically(t *testing.T) {
	earlier := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	later := earlier.Add(1500 * time.Millisecond)

	a, b := formatTime(earlier), formatTime(later)
	assert.Len(t, a, len(b))
	assert.Less(t, a, b)
	assert.True(t, later.Equal(parseTime(b)))
	assert.Nil(t, parseTimePtr(""))
}

func TestApplicationItemRoundTrip(t *testing.T) {
	applied := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)
	app := core.Application{
		ID:          "app-1",
		CustomerID:  "cus-1",
		PolicyID:    "pol-1",
		PolicyTitle: "Term Life",
		Quote: core.Quote{
			PolicyID:       "pol-1",
			CoverageAmount: 500000,
			DurationYears:  20,
			BaseRate:       0.5,
			Premium:        core.Premium{Monthly: 208, Annual: 2500, Total: 50000},
		},
		Applicant: core.Applicant{FullName: "Jane Doe", DateOfBirth: "1990-04-12"},
		Health:    core.HealthDisclosure{HeightCm: "170", WeightKg: "65", Conditions: []string{"asthma"}},
		Status:    core.ApplicationStatusPending,
		AppliedAt: applied,
		UpdatedAt: applied,
	}

	item := applicationItemFromCore(app)
	assert.Empty(t, item.AssignedAgentID)
	assert.Equal(t, int64(208), item.MonthlyPremium)
	assert.Equal(t, app, item.ToCore())
}

func TestCreateTableInputDefinesIndexAttributes(t *testing.T) {
	var apps tableSpec
	for _, s := range tableSpecs {
		if s.name == TableApplications {
			apps = s
		}
	}
	in := createTableInput(apps)

	names := map[string]bool{}
	for _, d := range in.AttributeDefinitions {
		names[aws.ToString(d.AttributeName)] = true
	}
	assert.Equal(t, map[string]bool{
		"id": true, "customer_id": true, "assigned_agent_id": true, "status": true, "applied_at": true,
	}, names)
	assert.Len(t, in.GlobalSecondaryIndexes, 3)
}

func canceled(codes ...string) error {
	tce := &types.TransactionCanceledException{}
	for _, c := range codes {
		tce.CancellationReasons = append(tce.CancellationReasons, types.CancellationReason{Code: aws.String(c)})
	}
	return tce
}

func TestUniqueWriteError(t *testing.T) {
	taken := func() (bool, error) { return true, nil }
	free := func() (bool, error) { return false, nil }
	broken := func() (bool, error) { return false, errors.New("throttled") }

	tests := []struct {
		name     string
		err      error
		reserved func() (bool, error)
		want     error
	}{
		{"key already reserved", canceled("ConditionalCheckFailed", "None"), free, core.ErrDuplicateClaim},
		{"lost a concurrent reservation", canceled("TransactionConflict", "None"), taken, core.ErrDuplicateClaim},
		{"conflict without a winner", canceled("TransactionConflict", "None"), free, nil},
		{"lookup fails", canceled("TransactionConflict", "None"), broken, nil},
		{"other failure", errors.New("boom"), taken, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := uniqueWriteError(tt.err, TableClaims, core.ErrDuplicateClaim, tt.reserved)
			if tt.want != nil {
				assert.Equal(t, tt.want, err)
				return
			}
			assert.Error(t, err)
			assert.NotErrorIs(t, err, core.ErrDuplicateClaim)
		})
	}
}

func TestApproveWriteError(t *testing.T) {
	changed := func() error { return core.ErrApplicationChanged }

	assert.ErrorIs(t, approveWriteError(canceled("ConditionalCheckFailed", "None"), changed), core.ErrApplicationChanged)
	assert.ErrorIs(t, approveWriteError(canceled("None", "ConditionalCheckFailed"), changed), core.ErrPolicyNotFound)
	assert.ErrorIs(t, approveWriteError(canceled("TransactionConflict", "None"), changed), core.ErrApplicationChanged)
	assert.ErrorIs(t, approveWriteError(&types.TransactionConflictException{}, changed), core.ErrApplicationChanged)

	err := approveWriteError(errors.New("boom"), changed)
	assert.NotErrorIs(t, err, core.ErrConflict)
}

type fakeWriter struct {
	errs  []error
	calls int
}

func (f *fakeWriter) TransactWriteItems(context.Context, *dynamodb.TransactWriteItemsInput, ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	err := f.errs[min(f.calls, len(f.errs)-1)]
	f.calls++
	return &dynamodb.TransactWriteItemsOutput{}, err
}

func TestTransactWriteRetriesConflicts(t *testing.T) {
	transactBackoff = time.Millisecond
	ctx := context.Background()

	t.Run("conflict then success", func(t *testing.T) {
		w := &fakeWriter{errs: []error{canceled("TransactionConflict", "None"), nil}}
		require.NoError(t, transactWrite(ctx, w, &dynamodb.TransactWriteItemsInput{}))
		assert.Equal(t, 2, w.calls)
	})

	t.Run("conflict then condition failure", func(t *testing.T) {
		w := &fakeWriter{errs: []error{canceled("TransactionConflict", "None"), canceled("ConditionalCheckFailed", "None")}}
		err := transactWrite(ctx, w, &dynamodb.TransactWriteItemsInput{})
		assert.Equal(t, "ConditionalCheckFailed", cancellationCode(err, 0))
		assert.Equal(t, 2, w.calls)
	})

	t.Run("persistent conflict gives up", func(t *testing.T) {
		w := &fakeWriter{errs: []error{canceled("TransactionConflict", "None")}}
		err := transactWrite(ctx, w, &dynamodb.TransactWriteItemsInput{})
		assert.True(t, isTransactionConflict(err))
		assert.Equal(t, transactAttempts, w.calls)
	})

	t.Run("condition failure is not retried", func(t *testing.T) {
		w := &fakeWriter{errs: []error{canceled("ConditionalCheckFailed", "TransactionConflict")}}
		_ = transactWrite(ctx, w, &dynamodb.TransactWriteItemsInput{})
		assert.Equal(t, 1, w.calls)
	})
}

func TestCasConditionGuardsOnAssignment(t *testing.T) {
	assigned, err := expression.NewBuilder().
		WithCondition(casCondition(core.ApplicationState{Status: core.ApplicationStatusPending, AssignedAgentID: "agt-1"})).
		Build()
	require.NoError(t, err)
	var values []string
	for _, v := range assigned.Values() {
		values = append(values, v.(*types.AttributeValueMemberS).Value)
	}
	assert.ElementsMatch(t, []string{"pending", "agt-1"}, values)

	unassigned, err := expression.NewBuilder().
		WithCondition(casCondition(core.ApplicationState{Status: core.ApplicationStatusPending})).
		Build()
	require.NoError(t, err)
	assert.Contains(t, aws.ToString(unassigned.Condition()), "attribute_not_exists")
}
