// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with `swag init -g cmd/api/main.go`.
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
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Create an account",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/credentials"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Exchange credentials for a bearer token",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/credentials"}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/readings": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["readings"],
                "summary": "List readings in a date range",
                "parameters": [
                    {"type": "string", "name": "from", "in": "query"},
                    {"type": "string", "name": "to", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["readings"],
                "summary": "Store the morning reading for a day (last write wins)",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/habits/log": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["habits"],
                "summary": "List habit logs in a date range",
                "parameters": [
                    {"type": "string", "name": "from", "in": "query"},
                    {"type": "string", "name": "to", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["habits"],
                "summary": "Create or patch the habit log of a day",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/habits/log/{date}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["habits"],
                "summary": "Get the habit log of one day",
                "parameters": [{"type": "string", "name": "date", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/insights/correlations": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["insights"],
                "summary": "Habit/HRV correlation report",
                "parameters": [
                    {"type": "string", "name": "date", "in": "query"},
                    {"type": "boolean", "name": "lag", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/insights/top": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["insights"],
                "summary": "Habits with the largest absolute impact on HRV",
                "parameters": [
                    {"type": "string", "name": "date", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/insights/recommendations": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["insights"],
                "summary": "Ranked habit recommendations",
                "parameters": [
                    {"type": "string", "name": "date", "in": "query"},
                    {"type": "integer", "name": "max", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/insights/focus": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["insights"],
                "summary": "The one recommendation to act on today",
                "parameters": [{"type": "string", "name": "date", "in": "query"}],
                "responses": {"200": {"description": "OK"}, "204": {"description": "No Content"}}
            }
        },
        "/morning/analysis": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["morning"],
                "summary": "Build today's morning analysis and plan",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["profile"],
                "summary": "Get the caller's health profile",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["profile"],
                "summary": "Replace the caller's health profile",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        }
    },
    "definitions": {
        "credentials": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Kanso HRV Engine API",
	Description:      "Morning HRV readings, daily habit logs and the correlations between them.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
