// Package docs provides Swagger documentation for the insureflow API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "insureflow API",
        "description": "Insurance policy sales and claims API.\n\nCustomers price and apply for policies, agents and admins review applications, approved holders file one claim per application, and admins track premium earnings.\n\nEvery /api/v1 call needs X-API-Key and a bearer token carrying sub, email and role, except catalog reads (policies, policy reviews, quotes), which only need X-API-Key.",
        "contact": {
            "name": "API Support",
            "url": "https://github.com/MrKriegler/insureflow"
        },
        "license": {
            "name": "MIT"
        },
        "version": "1.0.0"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": [
        "http",
        "https"
    ],
    "consumes": [
        "application/json"
    ],
    "produces": [
        "application/json"
    ],
    "securityDefinitions": {
        "ApiKey": {
            "type": "apiKey",
            "in": "header",
            "name": "X-API-Key"
        },
        "Bearer": {
            "type": "apiKey",
            "in": "header",
            "name": "Authorization"
        }
    },
    "security": [
        {
            "ApiKey": [],
            "Bearer": []
        }
    ],
    "paths": {
        "/policies": {
            "get": {
                "tags": [
                    "Policies"
                ],
                "summary": "List policies",
                "operationId": "listPolicies",
                "security": [
                    {
                        "ApiKey": []
                    }
                ],
                "parameters": [
                    {
                        "name": "category",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "search",
                        "in": "query",
                        "type": "string",
                        "description": "Case-insensitive match on title or description"
                    },
                    {
                        "name": "sort",
                        "in": "query",
                        "type": "string",
                        "description": "newest (default) or popular"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Policy page",
                        "schema": {
                            "$ref": "#/definitions/PolicyList"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "Policies"
                ],
                "summary": "Create a policy",
                "operationId": "createPolicy",
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/PolicyInput"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/Policy"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    },
                    "403": {
                        "description": "Admin only",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    }
                }
            }
        },
        "/policies/{policy_id}": {
            "get": {
                "tags": [
                    "Policies"
                ],
                "summary": "Get a policy",
                "operationId": "getPolicy",
                "security": [
                    {
                        "ApiKey": []
                    }
                ],
                "parameters": [
                    {
                        "name": "policy_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Policy",
                        "schema": {
                            "$ref": "#/definitions/Policy"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    }
                }
            },
            "put": {
                "tags": [
                    "Policies"
                ],
                "summary": "Update a policy",
                "operationId": "updatePolicy",
                "parameters": [
                    {
                        "name": "policy_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/PolicyInput"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Updated",
                        "schema": {
                            "$ref": "#/definitions/Policy"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    },
                    "403": {
                        "description": "Admin only",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    }
                }
            }
        },
        "/policies/{policy_id}/reviews": {
            "get": {
                "tags": [
                    "Reviews"
                ],
                "summary": "List reviews of a policy",
                "operationId": "listPolicyReviews",
                "security": [
                    {
                        "ApiKey": []
                    }
                ],
                "parameters": [
                    {
                        "name": "policy_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Reviews and rating",
                        "schema": {
                            "$ref": "#/definitions/PolicyReviews"
                        }
                    },
                    "404": {
                        "description": "Policy not found",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    }
                }
            }
        },
        "/quotes": {
            "get": {
                "tags": [
                    "Quotes"
                ],
                "summary": "Price a coverage",
                "operationId": "getQuote",
                "security": [
                    {
                        "ApiKey": []
                    }
                ],
                "description": "annual = round(coverage x base_rate / 100); monthly = round(annual / 12); total = annual x duration_years",
                "parameters": [
                    {
                        "name": "policy_id",
                        "in": "query",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "coverage_amount",
                        "in": "query",
                        "type": "integer",
                        "required": true
                    },
                    {
                        "name": "duration_years",
                        "in": "query",
                        "type": "integer",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Quote",
                        "schema": {
                            "$ref": "#/definitions/Quote"
                        }
                    },
                    "400": {
                        "description": "Non-numeric parameter",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    },
                    "404": {
                        "description": "Policy not found",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    },
                    "422": {
                        "description": "Coverage or duration outside the policy range",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    }
                }
            }
        },
        "/applications": {
            "post": {
                "tags": [
                    "Applications"
                ],
                "summary": "Submit an application",
                "operationId": "submitApplication",
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ApplicationInput"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/Application"
                        }
                    },
                    "400": {
                        "description": "Validation error, every invalid field listed in errors",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    },
                    "403": {
                        "description": "Customers only",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    },
                    "404": {
                        "description": "Policy not found",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    },
                    "422": {
                        "description": "Invalid quote",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    }
                }
            },
            "get": {
                "tags": [
                    "Applications"
                ],
                "summary": "List visible applications",
                "operationId": "listApplications",
                "description": "Admins see all, agents see their assignments, customers see their own.",
                "parameters": [
                    {
                        "name": "status",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "policy_id",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Application page",
                        "schema": {
                            "$ref": "#/definitions/ApplicationList"
                        }
                    }
                }
            }
        },
        "/applications/{application_id}": {
            "get": {
                "tags": [
                    "Applications"
                ],
                "summary": "Get an application",
                "operationId": "getApplication",
                "parameters": [
                    {
                        "name": "application_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Application",
                        "schema": {
                            "$ref": "#/definitions/Application"
                        }
                    },
                    "403": {
                        "description": "Not visible",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    }
                }
            }
        },
        "/applications/{application_id}/agent": {
            "patch": {
                "tags": [
                    "Applications"
                ],
                "summary": "Assign an agent",
                "operationId": "assignAgent",
                "parameters": [
                    {
                        "name": "application_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/AssignAgentRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Updated",
                        "schema": {
                            "$ref": "#/definitions/Application"
                        }
                    },
                    "403": {
                        "description": "Admin only",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    },
                    "409": {
                        "description": "Application already decided",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    }
                }
            }
        },
        "/applications/{application_id}/status": {
            "patch": {
                "tags": [
                    "Applications"
                ],
                "summary": "Change application status",
                "operationId": "setApplicationStatus",
                "parameters": [
                    {
                        "name": "application_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/StatusInput"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Updated",
                        "schema": {
                            "$ref": "#/definitions/Application"
                        }
                    },
                    "400": {
                        "description": "Unknown status or missing feedback",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    },
                    "403": {
                        "description": "Admin or assigned agent only",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    },
                    "409": {
                        "description": "Invalid transition",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    }
                }
            }
        },
        "/claims": {
            "post": {
                "tags": [
                    "Claims"
                ],
                "summary": "File a claim",
                "operationId": "fileClaim",
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ClaimInput"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/Claim"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    },
                    "403": {
                        "description": "Application not owned or not approved",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    },
                    "409": {
                        "description": "Application already has a claim",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    }
                }
            },
            "get": {
                "tags": [
                    "Claims"
                ],
                "summary": "List visible claims",
                "operationId": "listClaims",
                "parameters": [
                    {
                        "name": "status",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "application_id",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Claim page",
                        "schema": {
                            "$ref": "#/definitions/ClaimList"
                        }
                    }
                }
            }
        },
        "/claims/eligible": {
            "get": {
                "tags": [
                    "Claims"
                ],
                "summary": "List applications eligible for a claim",
                "operationId": "eligibleApplications",
                "parameters": [
                    {
                        "name": "customer_id",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Application page",
                        "schema": {
                            "$ref": "#/definitions/ApplicationList"
                        }
                    },
                    "403": {
                        "description": "Another customer's eligibility",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    }
                }
            }
        },
        "/claims/{claim_id}": {
            "get": {
                "tags": [
                    "Claims"
                ],
                "summary": "Get a claim",
                "operationId": "getClaim",
                "parameters": [
                    {
                        "name": "claim_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Claim",
                        "schema": {
                            "$ref": "#/definitions/Claim"
                        }
                    },
                    "403": {
                        "description": "Not visible",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    }
                }
            }
        },
        "/claims/{claim_id}/approve": {
            "patch": {
                "tags": [
                    "Claims"
                ],
                "summary": "Approve a claim",
                "operationId": "approveClaim",
                "parameters": [
                    {
                        "name": "claim_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Updated",
                        "schema": {
                            "$ref": "#/definitions/Claim"
                        }
                    },
                    "403": {
                        "description": "Agents and admins only",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    },
                    "409": {
                        "description": "Claim already resolved",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    }
                }
            }
        },
        "/claims/{claim_id}/reject": {
            "patch": {
                "tags": [
                    "Claims"
                ],
                "summary": "Reject a claim",
                "operationId": "rejectClaim",
                "parameters": [
                    {
                        "name": "claim_id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/FeedbackRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Updated",
                        "schema": {
                            "$ref": "#/definitions/Claim"
                        }
                    },
                    "400": {
                        "description": "Missing feedback",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    },
                    "403": {
                        "description": "Agents and admins only",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    },
                    "409": {
                        "description": "Claim already resolved",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    }
                }
            }
        },
        "/reviews": {
            "post": {
                "tags": [
                    "Reviews"
                ],
                "summary": "Review a policy",
                "operationId": "createReview",
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ReviewInput"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/Review"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    },
                    "403": {
                        "description": "No approved claim on this application",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    },
                    "409": {
                        "description": "Already reviewed",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    }
                }
            }
        },
        "/transactions": {
            "post": {
                "tags": [
                    "Transactions"
                ],
                "summary": "Record a payment",
                "operationId": "recordPayment",
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/PaymentInput"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/Transaction"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    },
                    "403": {
                        "description": "Application not owned or not approved",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    },
                    "409": {
                        "description": "payment_ref already recorded",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    }
                }
            },
            "get": {
                "tags": [
                    "Transactions"
                ],
                "summary": "List payments",
                "operationId": "listTransactions",
                "parameters": [
                    {
                        "name": "policy_id",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Transaction page",
                        "schema": {
                            "$ref": "#/definitions/TransactionList"
                        }
                    },
                    "403": {
                        "description": "Agents cannot list payments",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    }
                }
            }
        },
        "/reports/earnings": {
            "get": {
                "tags": [
                    "Transactions"
                ],
                "summary": "Earnings report",
                "operationId": "earnings",
                "responses": {
                    "200": {
                        "description": "Report",
                        "schema": {
                            "$ref": "#/definitions/EarningsReport"
                        }
                    },
                    "403": {
                        "description": "Admin only",
                        "schema": {
                            "$ref": "#/definitions/ProblemDetails"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "PolicyInput": {
            "type": "object",
            "properties": {
                "title": {
                    "type": "string"
                },
                "category": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "min_age": {
                    "type": "integer"
                },
                "max_age": {
                    "type": "integer"
                },
                "coverage": {
                    "type": "object",
                    "properties": {
                        "min_amount": {
                            "type": "integer"
                        },
                        "max_amount": {
                            "type": "integer"
                        }
                    }
                },
                "duration": {
                    "type": "object",
                    "properties": {
                        "options": {
                            "type": "array",
                            "items": {
                                "type": "integer"
                            }
                        }
                    }
                },
                "premium": {
                    "type": "object",
                    "properties": {
                        "base_rate": {
                            "type": "number"
                        }
                    }
                }
            }
        },
        "Policy": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                },
                "category": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "min_age": {
                    "type": "integer"
                },
                "max_age": {
                    "type": "integer"
                },
                "coverage": {
                    "type": "object",
                    "properties": {
                        "min_amount": {
                            "type": "integer"
                        },
                        "max_amount": {
                            "type": "integer"
                        }
                    }
                },
                "duration": {
                    "type": "object",
                    "properties": {
                        "options": {
                            "type": "array",
                            "items": {
                                "type": "integer"
                            }
                        }
                    }
                },
                "premium": {
                    "type": "object",
                    "properties": {
                        "base_rate": {
                            "type": "number"
                        }
                    }
                },
                "purchase_count": {
                    "type": "integer"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "updated_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "PolicyList": {
            "type": "object",
            "properties": {
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/Policy"
                    }
                },
                "count": {
                    "type": "integer"
                }
            }
        },
        "Quote": {
            "type": "object",
            "properties": {
                "policy_id": {
                    "type": "string"
                },
                "coverage_amount": {
                    "type": "integer"
                },
                "duration_years": {
                    "type": "integer"
                },
                "base_rate": {
                    "type": "number"
                },
                "monthly": {
                    "type": "integer"
                },
                "annual": {
                    "type": "integer"
                },
                "total": {
                    "type": "integer"
                }
            }
        },
        "Applicant": {
            "type": "object",
            "properties": {
                "full_name": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "phone": {
                    "type": "string"
                },
                "address": {
                    "type": "string"
                },
                "date_of_birth": {
                    "type": "string",
                    "example": "1990-04-12"
                },
                "national_id": {
                    "type": "string"
                },
                "occupation": {
                    "type": "string"
                },
                "annual_income": {
                    "type": "string"
                }
            }
        },
        "Nominee": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "relationship": {
                    "type": "string"
                },
                "phone": {
                    "type": "string"
                }
            }
        },
        "HealthDisclosure": {
            "type": "object",
            "properties": {
                "height_cm": {
                    "type": "string"
                },
                "weight_kg": {
                    "type": "string"
                },
                "smoker": {
                    "type": "boolean"
                },
                "conditions": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "ApplicationInput": {
            "type": "object",
            "properties": {
                "policy_id": {
                    "type": "string"
                },
                "coverage_amount": {
                    "type": "integer"
                },
                "duration_years": {
                    "type": "integer"
                },
                "applicant": {
                    "$ref": "#/definitions/Applicant"
                },
                "nominee": {
                    "$ref": "#/definitions/Nominee"
                },
                "health": {
                    "$ref": "#/definitions/HealthDisclosure"
                }
            }
        },
        "Application": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "customer_id": {
                    "type": "string"
                },
                "customer_email": {
                    "type": "string"
                },
                "policy_id": {
                    "type": "string"
                },
                "policy_title": {
                    "type": "string"
                },
                "quote": {
                    "$ref": "#/definitions/Quote"
                },
                "applicant": {
                    "$ref": "#/definitions/Applicant"
                },
                "nominee": {
                    "$ref": "#/definitions/Nominee"
                },
                "health": {
                    "$ref": "#/definitions/HealthDisclosure"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "pending",
                        "under_review",
                        "approved",
                        "rejected"
                    ]
                },
                "assigned_agent_id": {
                    "type": "string"
                },
                "rejection_feedback": {
                    "type": "string"
                },
                "reviewed_by": {
                    "type": "string"
                },
                "applied_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "updated_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "approved_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "rejected_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "ApplicationList": {
            "type": "object",
            "properties": {
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/Application"
                    }
                },
                "count": {
                    "type": "integer"
                }
            }
        },
        "AssignAgentRequest": {
            "type": "object",
            "properties": {
                "agent_id": {
                    "type": "string"
                }
            }
        },
        "StatusInput": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string",
                    "enum": [
                        "pending",
                        "under_review",
                        "approved",
                        "rejected"
                    ]
                },
                "feedback": {
                    "type": "string"
                }
            }
        },
        "ClaimInput": {
            "type": "object",
            "properties": {
                "application_id": {
                    "type": "string"
                },
                "reason": {
                    "type": "string"
                },
                "document_ref": {
                    "type": "string"
                }
            }
        },
        "Claim": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "application_id": {
                    "type": "string"
                },
                "policy_id": {
                    "type": "string"
                },
                "policy_title": {
                    "type": "string"
                },
                "customer_id": {
                    "type": "string"
                },
                "customer_email": {
                    "type": "string"
                },
                "reason": {
                    "type": "string"
                },
                "document_ref": {
                    "type": "string"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "pending",
                        "approved",
                        "rejected"
                    ]
                },
                "rejection_feedback": {
                    "type": "string"
                },
                "resolved_by": {
                    "type": "string"
                },
                "submitted_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "updated_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "approved_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "rejected_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "ClaimList": {
            "type": "object",
            "properties": {
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/Claim"
                    }
                },
                "count": {
                    "type": "integer"
                }
            }
        },
        "FeedbackRequest": {
            "type": "object",
            "properties": {
                "feedback": {
                    "type": "string"
                }
            }
        },
        "ReviewInput": {
            "type": "object",
            "properties": {
                "application_id": {
                    "type": "string"
                },
                "rating": {
                    "type": "integer",
                    "minimum": 1,
                    "maximum": 5
                },
                "comment": {
                    "type": "string"
                }
            }
        },
        "Review": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "policy_id": {
                    "type": "string"
                },
                "application_id": {
                    "type": "string"
                },
                "customer_id": {
                    "type": "string"
                },
                "customer_name": {
                    "type": "string"
                },
                "rating": {
                    "type": "integer"
                },
                "comment": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "PolicyReviews": {
            "type": "object",
            "properties": {
                "rating": {
                    "type": "object",
                    "properties": {
                        "policy_id": {
                            "type": "string"
                        },
                        "count": {
                            "type": "integer"
                        },
                        "average": {
                            "type": "number"
                        }
                    }
                },
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/Review"
                    }
                },
                "count": {
                    "type": "integer"
                }
            }
        },
        "PaymentInput": {
            "type": "object",
            "properties": {
                "application_id": {
                    "type": "string"
                },
                "amount": {
                    "type": "integer",
                    "description": "Defaults to the monthly premium when 0"
                },
                "payment_ref": {
                    "type": "string"
                }
            }
        },
        "Transaction": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "application_id": {
                    "type": "string"
                },
                "policy_id": {
                    "type": "string"
                },
                "policy_title": {
                    "type": "string"
                },
                "customer_id": {
                    "type": "string"
                },
                "customer_email": {
                    "type": "string"
                },
                "amount": {
                    "type": "integer"
                },
                "payment_ref": {
                    "type": "string"
                },
                "paid_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "TransactionList": {
            "type": "object",
            "properties": {
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/Transaction"
                    }
                },
                "count": {
                    "type": "integer"
                }
            }
        },
        "EarningsReport": {
            "type": "object",
            "properties": {
                "total": {
                    "type": "integer"
                },
                "transaction_count": {
                    "type": "integer"
                },
                "by_policy": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "policy_id": {
                                "type": "string"
                            },
                            "policy_title": {
                                "type": "string"
                            },
                            "total": {
                                "type": "integer"
                            },
                            "count": {
                                "type": "integer"
                            }
                        }
                    }
                },
                "by_month": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "month": {
                                "type": "string",
                                "example": "2026-03"
                            },
                            "total": {
                                "type": "integer"
                            }
                        }
                    }
                }
            }
        },
        "ProblemDetails": {
            "type": "object",
            "description": "RFC 7807 Problem Details",
            "properties": {
                "type": {
                    "type": "string",
                    "example": "/problems/invalid-state"
                },
                "title": {
                    "type": "string",
                    "example": "Invalid State Transition"
                },
                "status": {
                    "type": "integer",
                    "example": 409
                },
                "detail": {
                    "type": "string"
                },
                "errors": {
                    "type": "array",
                    "description": "Validation problems only",
                    "items": {
                        "type": "object",
                        "properties": {
                            "field": {
                                "type": "string"
                            },
                            "message": {
                                "type": "string"
                            }
                        }
                    }
                },
                "current_status": {
                    "type": "string",
                    "description": "Invalid-state problems only"
                },
                "requested_status": {
                    "type": "string",
                    "description": "Invalid-state problems only"
                }
            }
        }
    },
    "tags": [
        {
            "name": "Policies",
            "description": "Policy catalog"
        },
        {
            "name": "Quotes",
            "description": "Premium pricing"
        },
        {
            "name": "Applications",
            "description": "Application review lifecycle"
        },
        {
            "name": "Claims",
            "description": "One claim per approved application"
        },
        {
            "name": "Reviews",
            "description": "Policy ratings"
        },
        {
            "name": "Transactions",
            "description": "Premium payments and earnings"
        }
    ]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "insureflow API",
	Description:      "Insurance policy sales and claims API",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
