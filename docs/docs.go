// Package docs registers the OpenAPI document of the ops HTTP API with swag.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/events/{eventID}/roster": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns the event, its attendee rows and the announcement text exactly as it is rendered in the chat.",
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Get an event roster",
                "parameters": [
                    {"type": "integer", "description": "Event ID", "name": "eventID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "data contains the roster", "schema": {"$ref": "#/definitions/controllers.RosterSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ops"],
                "summary": "Liveness and store check",
                "responses": {
                    "200": {"description": "data.status: ok", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "503": {"description": "error.code: unavailable", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "controllers.RosterResponse": {
            "type": "object",
            "properties": {
                "attendees": {"type": "array", "items": {"$ref": "#/definitions/domain.Attendee"}},
                "event": {"$ref": "#/definitions/domain.Event"},
                "text": {"type": "string"},
                "total": {"type": "integer"}
            }
        },
        "controllers.RosterSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/controllers.RosterResponse"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "domain.Attendee": {
            "type": "object",
            "properties": {
                "event_id": {"type": "integer"},
                "guest_of_user_id": {"type": "integer"},
                "id": {"type": "integer"},
                "kind": {"type": "integer"},
                "name": {"type": "string"},
                "user_id": {"type": "integer"}
            }
        },
        "domain.Event": {
            "type": "object",
            "properties": {
                "chat_id": {"type": "integer"},
                "created_at": {"type": "string"},
                "description": {"type": "string"},
                "id": {"type": "integer"},
                "max_attendees": {"type": "integer"},
                "message_id": {"type": "integer"},
                "thread_id": {"type": "integer"}
            }
        },
        "helpers.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "helpers.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "RSVP bot ops API",
	Description:      "Read-only operations API for the event RSVP bot.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
