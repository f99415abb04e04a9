// Package docs holds the OpenAPI description served under /swagger. Keep it
// in step with the @Router annotations in internal/api/handlers.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/documents/assigned": {
            "get": {
                "security": [{"Bearer": []}],
                "description": "Approved documents assigned to the caller, newest first",
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "List documents assigned to the current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.DocumentResponse"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/documents/pending": {
            "get": {
                "security": [{"Bearer": []}],
                "description": "Pending and under-review documents, newest first",
                "produces": ["application/json"],
                "tags": ["review"],
                "summary": "List documents awaiting review",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.DocumentResponse"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "403": {"description": "Forbidden", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/documents/upload": {
            "post": {
                "security": [{"Bearer": []}],
                "description": "Store a document for review; text extraction, summary and translation run in the background",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Upload a document",
                "parameters": [
                    {"type": "file", "description": "Document file (max 10 MB)", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "description": "Title", "name": "title", "in": "formData", "required": true},
                    {"type": "string", "description": "Category", "name": "category", "in": "formData", "required": true},
                    {"type": "string", "description": "Description", "name": "description", "in": "formData"},
                    {"type": "string", "default": "medium", "description": "low, medium or high", "name": "priority", "in": "formData"},
                    {"type": "string", "description": "Deadline (YYYY-MM-DD)", "name": "deadline", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.DocumentResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "502": {"description": "Bad Gateway", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/documents/{id}": {
            "get": {
                "security": [{"Bearer": []}],
                "description": "Employees only see approved documents assigned to them",
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Get a document",
                "parameters": [{"type": "string", "description": "Document ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.DocumentResponse"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/documents/{id}/approve": {
            "post": {
                "security": [{"Bearer": []}],
                "description": "Approves the document and assigns it to the given employees. Approving an approved document adds assignees.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["review"],
                "summary": "Approve and assign a document",
                "parameters": [
                    {"type": "string", "description": "Document ID", "name": "id", "in": "path", "required": true},
                    {"description": "Assignees and optional review notes", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.ApproveDocumentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ApproveDocumentResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/documents/{id}/assignments": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["review"],
                "summary": "List assignees of a document",
                "parameters": [{"type": "string", "description": "Document ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.AssignmentResponse"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/documents/{id}/enrich": {
            "post": {
                "security": [{"Bearer": []}],
                "tags": ["review"],
                "summary": "Re-run text extraction and summarisation",
                "parameters": [{"type": "string", "description": "Document ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/documents/{id}/reject": {
            "post": {
                "security": [{"Bearer": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["review"],
                "summary": "Reject a document",
                "parameters": [
                    {"type": "string", "description": "Document ID", "name": "id", "in": "path", "required": true},
                    {"description": "Review notes", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RejectDocumentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.DocumentResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/documents/{id}/review": {
            "post": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["review"],
                "summary": "Start reviewing a document",
                "parameters": [{"type": "string", "description": "Document ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.DocumentResponse"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/documents/{id}/url": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Get a short-lived link to the document file",
                "parameters": [{"type": "string", "description": "Document ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.FileURLResponse"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "502": {"description": "Bad Gateway", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/employees": {
            "get": {
                "security": [{"Bearer": []}],
                "description": "Active employees sorted by name",
                "produces": ["application/json"],
                "tags": ["review"],
                "summary": "List assignable employees",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.UserResponse"}}},
                    "403": {"description": "Forbidden", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/notifications": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "List the current user's notifications",
                "parameters": [
                    {"type": "boolean", "description": "Only unread notifications", "name": "unread", "in": "query"},
                    {"type": "integer", "default": 50, "description": "Limit", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.NotificationResponse"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/notifications/{id}/read": {
            "post": {
                "security": [{"Bearer": []}],
                "tags": ["notifications"],
                "summary": "Mark a notification as read",
                "parameters": [{"type": "string", "description": "Notification ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/files/{ref}": {
            "get": {
                "tags": ["files"],
                "summary": "Download a document file through a signed link",
                "parameters": [
                    {"type": "string", "description": "File reference", "name": "ref", "in": "path", "required": true},
                    {"type": "string", "description": "Signed token", "name": "token", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "403": {"description": "Forbidden", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/user/auth/login": {
            "post": {
                "description": "Login with email and password; the access token carries the user's role",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login user",
                "parameters": [{"description": "Login request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AuthResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/user/auth/refresh": {
            "post": {
                "description": "Exchange a refresh token for a new token pair",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Refresh access token",
                "parameters": [{"description": "Refresh token request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RefreshTokenRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AuthResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "dto.ApproveDocumentRequest": {
            "type": "object",
            "required": ["employee_ids"],
            "properties": {
                "employee_ids": {"type": "array", "minItems": 1, "items": {"type": "string"}},
                "review_notes": {"type": "string"}
            }
        },
        "dto.ApproveDocumentResponse": {
            "type": "object",
            "properties": {
                "document": {"$ref": "#/definitions/dto.DocumentResponse"},
                "new_assignments": {"type": "array", "items": {"$ref": "#/definitions/dto.AssignmentResponse"}}
            }
        },
        "dto.AssignmentResponse": {
            "type": "object",
            "properties": {
                "assigned_at": {"type": "string"},
                "document_id": {"type": "string"},
                "user_id": {"type": "string"}
            }
        },
        "dto.AuthResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "expires_in": {"type": "integer"},
                "refresh_token": {"type": "string"},
                "token_type": {"type": "string"},
                "user": {"$ref": "#/definitions/dto.UserResponse"}
            }
        },
        "dto.DocumentResponse": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "created_at": {"type": "string"},
                "deadline": {"type": "string"},
                "description": {"type": "string"},
                "enrichment_error": {"type": "string"},
                "enrichment_status": {"type": "string"},
                "extracted_text": {"type": "string"},
                "file_name": {"type": "string"},
                "file_size": {"type": "integer"},
                "file_type": {"type": "string"},
                "id": {"type": "string"},
                "priority": {"type": "string"},
                "review_notes": {"type": "string"},
                "status": {"type": "string"},
                "summary": {"type": "string"},
                "title": {"type": "string"},
                "translation": {"type": "string"},
                "updated_at": {"type": "string"},
                "uploaded_by": {"type": "string"}
            }
        },
        "dto.FileURLResponse": {
            "type": "object",
            "properties": {
                "expires_at": {"type": "string"},
                "url": {"type": "string"}
            }
        },
        "dto.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "dto.NotificationResponse": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "created_at": {"type": "string"},
                "id": {"type": "string"},
                "message": {"type": "string"},
                "priority": {"type": "string"},
                "read": {"type": "boolean"},
                "title": {"type": "string"}
            }
        },
        "dto.RefreshTokenRequest": {
            "type": "object",
            "required": ["refresh_token"],
            "properties": {
                "refresh_token": {"type": "string"}
            }
        },
        "dto.RejectDocumentRequest": {
            "type": "object",
            "required": ["review_notes"],
            "properties": {
                "review_notes": {"type": "string"}
            }
        },
        "dto.UserResponse": {
            "type": "object",
            "properties": {
                "department": {"type": "string"},
                "email": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "Bearer": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo is the registered spec; the server may adjust Host at startup.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Document Portal API",
	Description:      "Document review and distribution portal: upload, review, approve and assign documents to employees",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
