// Package swagger registers the OpenAPI document served under /docs.
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Integrity Rating API",
        "description": "Citizen ratings of public officials and institutions with a moderated review workflow.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": ["http", "https"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Registration and login"},
        {"name": "Submissions", "description": "Nominees, institutions, ratings and comments awaiting review"},
        {"name": "Categories", "description": "Weighted rating categories"},
        {"name": "Moderation", "description": "Review queue and status transitions"},
        {"name": "Audit", "description": "Administrative audit trail"},
        {"name": "Dashboard", "description": "Statistics and leaderboards"},
        {"name": "Users", "description": "Account administration"}
    ],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Auth"], "summary": "Create a citizen account",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Email taken"}}
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"], "summary": "Issue an access token",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Invalid credentials"}}
            }
        },
        "/categories/{kind}": {
            "get": {
                "tags": ["Categories"], "summary": "List rating categories",
                "parameters": [
                    {"name": "kind", "in": "path", "required": true, "type": "string", "enum": ["nominees", "institutions"]},
                    {"name": "active", "in": "query", "type": "boolean"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/categories/{kind}": {
            "post": {
                "tags": ["Categories"], "summary": "Create a rating category", "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "kind", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CategoryRequest"}}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid weight or payload"}, "409": {"description": "Keyword taken"}}
            }
        },
        "/admin/categories/{kind}/{id}": {
            "put": {
                "tags": ["Categories"], "summary": "Replace a rating category", "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "kind", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CategoryRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/leaderboard/{kind}": {
            "get": {
                "tags": ["Dashboard"], "summary": "Highest rated nominees or institutions",
                "parameters": [
                    {"name": "kind", "in": "path", "required": true, "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer", "maximum": 10}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/references/{table}": {
            "get": {
                "tags": ["Submissions"], "summary": "Lookup values for submission forms",
                "parameters": [{"name": "table", "in": "path", "required": true, "type": "string", "enum": ["positions", "districts", "departments", "impact-areas"]}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Unknown list"}}
            }
        },
        "/nominees": {
            "post": {
                "tags": ["Submissions"], "summary": "Nominate a public official", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitNomineeRequest"}}],
                "responses": {"201": {"description": "Created"}, "429": {"description": "Rate limited"}}
            }
        },
        "/institutions": {
            "post": {
                "tags": ["Submissions"], "summary": "Register an institution", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitInstitutionRequest"}}],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Name taken"}}
            }
        },
        "/{kind}/{id}/ratings": {
            "post": {
                "tags": ["Submissions"], "summary": "Rate a nominee or institution", "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "kind", "in": "path", "required": true, "type": "string", "enum": ["nominees", "institutions"]},
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitRatingRequest"}}
                ],
                "responses": {"201": {"description": "Created, pending review"}, "400": {"description": "Score or severity outside 1-5"}, "404": {"description": "Target or category missing"}}
            }
        },
        "/{kind}/{id}/comments": {
            "post": {
                "tags": ["Submissions"], "summary": "Comment on a nominee or institution", "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "kind", "in": "path", "required": true, "type": "string", "enum": ["nominees", "institutions"]},
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitCommentRequest"}}
                ],
                "responses": {"201": {"description": "Created, pending review"}}
            }
        },
        "/admin/moderation/submissions": {
            "get": {
                "tags": ["Moderation"], "summary": "Review queue", "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "type", "in": "query", "type": "string", "enum": ["ALL", "NOMINEE", "INSTITUTION", "RATING", "INSTITUTION_RATING", "COMMENT", "INSTITUTION_COMMENT"]},
                    {"name": "status", "in": "query", "type": "string", "enum": ["PENDING", "FLAGGED"]},
                    {"name": "tab", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/moderation/{type}/{id}/{verb}": {
            "post": {
                "tags": ["Moderation"], "summary": "Approve, reject or flag one submission", "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "type", "in": "path", "required": true, "type": "string", "enum": ["nominees", "institutions", "ratings", "institution-ratings", "comments", "institution-comments"]},
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "verb", "in": "path", "required": true, "type": "string", "enum": ["approve", "reject", "flag"]}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/admin/moderation/batch": {
            "post": {
                "tags": ["Moderation"], "summary": "Apply one action to many submissions atomically", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BatchModerationRequest"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid action"}, "403": {"description": "moderatorId mismatch"}, "404": {"description": "Some ids missing, nothing written"}}
            }
        },
        "/admin/moderation/{type}/{id}/status": {
            "patch": {
                "tags": ["Moderation"], "summary": "Set a submission status directly", "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "type", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StatusChangeRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Unknown status"}}
            }
        },
        "/admin/ratings/{kind}/{id}": {
            "delete": {
                "tags": ["Moderation"], "summary": "Delete a rating and recompute its target", "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "kind", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {"204": {"description": "Deleted"}, "404": {"description": "Not found"}}
            }
        },
        "/admin/audit/logs": {
            "get": {
                "tags": ["Audit"], "summary": "List audit entries, newest first", "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "action", "in": "query", "type": "string"},
                    {"name": "resourceType", "in": "query", "type": "string"},
                    {"name": "adminId", "in": "query", "type": "integer"},
                    {"name": "startDate", "in": "query", "type": "string", "format": "date"},
                    {"name": "endDate", "in": "query", "type": "string", "format": "date"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/audit/logs/export": {
            "get": {
                "tags": ["Audit"], "summary": "Download audit entries", "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [{"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}],
                "responses": {"200": {"description": "File"}}
            }
        },
        "/admin/dashboard/stats": {
            "get": {
                "tags": ["Dashboard"], "summary": "Moderation dashboard", "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/users": {
            "get": {
                "tags": ["Users"], "summary": "List users", "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "role", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/users/{id}/role": {
            "patch": {
                "tags": ["Users"], "summary": "Change a user's role", "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object", "properties": {"role": {"type": "string", "enum": ["USER", "MODERATOR", "ADMIN"]}}}}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/users/{id}/status": {
            "patch": {
                "tags": ["Users"], "summary": "Activate or deactivate a user", "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object", "properties": {"isActive": {"type": "boolean"}}}}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object", "required": ["name", "email", "password"],
            "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string", "minLength": 8}}
        },
        "LoginRequest": {
            "type": "object", "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "CategoryRequest": {
            "type": "object", "required": ["keyword", "name", "weight"],
            "properties": {
                "keyword": {"type": "string"}, "name": {"type": "string"}, "icon": {"type": "string"},
                "description": {"type": "string"}, "weight": {"type": "integer", "minimum": 1, "maximum": 100},
                "examples": {"type": "array", "items": {"type": "string"}}, "isActive": {"type": "boolean"},
                "departments": {"type": "array", "items": {"type": "string"}}, "impactAreas": {"type": "array", "items": {"type": "string"}}
            }
        },
        "SubmitNomineeRequest": {
            "type": "object", "required": ["name", "title", "evidence", "position", "district"],
            "properties": {
                "name": {"type": "string"}, "title": {"type": "string"}, "evidence": {"type": "string"},
                "position": {"type": "string"}, "district": {"type": "string"},
                "institutionId": {"type": "integer"}, "institution": {"type": "string"}
            }
        },
        "SubmitInstitutionRequest": {
            "type": "object", "required": ["name", "type"],
            "properties": {"name": {"type": "string"}, "type": {"type": "string", "enum": ["GOVERNMENT", "PARASTATAL", "AGENCY", "CORPORATION"]}}
        },
        "SubmitRatingRequest": {
            "type": "object", "required": ["ratingCategoryId", "score", "severity"],
            "properties": {
                "ratingCategoryId": {"type": "integer"}, "score": {"type": "integer", "minimum": 1, "maximum": 5},
                "severity": {"type": "integer", "minimum": 1, "maximum": 5}, "evidence": {"type": "string"}
            }
        },
        "SubmitCommentRequest": {
            "type": "object", "required": ["content"],
            "properties": {"content": {"type": "string"}}
        },
        "BatchModerationRequest": {
            "type": "object", "required": ["ids", "action", "type"],
            "properties": {
                "ids": {"type": "array", "items": {"type": "integer"}},
                "action": {"type": "string"}, "type": {"type": "string"}, "moderatorId": {"type": "integer"}
            }
        },
        "StatusChangeRequest": {
            "type": "object", "required": ["status"],
            "properties": {"status": {"type": "string"}, "moderatorId": {"type": "integer"}}
        },
        "Pagination": {
            "type": "object",
            "properties": {"page": {"type": "integer"}, "page_size": {"type": "integer"}, "total_count": {"type": "integer"}, "total_pages": {"type": "integer"}}
        },
        "APIError": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "message": {"type": "string"}, "status": {"type": "integer"}}
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
