// Package docs registers the OpenAPI description of the publish API for
// http-swagger. Keep it in sync with the godoc annotations on the handlers.
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
        "/api": {
            "get": {
                "description": "Returns every field of the page whose secret id matches.",
                "produces": ["application/json"],
                "tags": ["api"],
                "summary": "Load a page for editing",
                "parameters": [
                    {"type": "string", "description": "Page id (edit key)", "name": "id", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/helpers.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/helpers.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/helpers.Response"}}
                }
            },
            "put": {
                "description": "Stores a new page. The server picks the id and the public name.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["api"],
                "summary": "Create a page",
                "parameters": [
                    {"description": "Draft fields", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.SavePageRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/helpers.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/helpers.Response"}}
                }
            },
            "post": {
                "description": "Overwrites the editable fields of the page named in the body; id must match.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["api"],
                "summary": "Update a page",
                "parameters": [
                    {"description": "Draft fields plus id and name", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.SavePageRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/helpers.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/helpers.Response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/helpers.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/helpers.Response"}}
                }
            }
        },
        "/api/admin/pages": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List pages (admin only)",
                "parameters": [
                    {"type": "integer", "description": "Page size (default 50, max 500)", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/helpers.Response"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}}
                }
            }
        },
        "/api/admin/pages/{name}": {
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Delete a page (admin only)",
                "parameters": [
                    {"type": "string", "description": "Page name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/helpers.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/helpers.Response"}}
                }
            }
        },
        "/api/admin/logs": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "JSON log lines for a day, filtered by level and substring.",
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Logs for one day (admin only)",
                "parameters": [
                    {"type": "string", "description": "Day (YYYY-MM-DD)", "name": "day", "in": "query", "required": true},
                    {"type": "string", "description": "CSV of levels: debug,info,warn,error", "name": "level", "in": "query"},
                    {"type": "string", "description": "Substring", "name": "q", "in": "query"},
                    {"type": "integer", "description": "Limit (default 200, max 1000)", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Line to resume after", "name": "cursor", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/helpers.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/helpers.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/helpers.Response"}}
                }
            }
        }
    },
    "definitions": {
        "helpers.Response": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean"},
                "msg": {"type": "string"},
                "payload": {}
            }
        },
        "models.SavePageRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "title": {"type": "string", "example": "First Post"},
                "author": {"type": "string", "example": "Andrew Chilton"},
                "website": {"type": "string"},
                "twitter": {"type": "string"},
                "facebook": {"type": "string"},
                "github": {"type": "string"},
                "instagram": {"type": "string"},
                "content": {"type": "string", "example": "My story."}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "publish API",
	Description:      "Create, load and update pages; admin moderation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
