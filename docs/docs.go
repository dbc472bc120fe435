// Package docs registers the OpenAPI document served at /swagger.
// Regenerate with: swag init -g cmd/server/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/printers": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Printers"],
                "summary": "List printers",
                "responses": {
                    "200": {"description": "Printers retrieved", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Printers"],
                "summary": "Create printer",
                "parameters": [
                    {"description": "Printer configuration", "name": "printer", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.PrinterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Printer created", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/api/v1/printers/default": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Printers"],
                "summary": "Get default printer",
                "responses": {
                    "200": {"description": "Default printer", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "404": {"description": "No default printer", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/api/v1/printers/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Printers"],
                "summary": "Get printer",
                "parameters": [{"type": "string", "description": "Printer ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Printer retrieved", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "404": {"description": "Printer not found", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Printers"],
                "summary": "Update printer",
                "parameters": [
                    {"type": "string", "description": "Printer ID", "name": "id", "in": "path", "required": true},
                    {"description": "Printer configuration", "name": "printer", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.PrinterRequest"}}
                ],
                "responses": {
                    "200": {"description": "Printer updated", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["Printers"],
                "summary": "Delete printer",
                "parameters": [{"type": "string", "description": "Printer ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Printer deleted", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/api/v1/printers/{id}/default": {
            "put": {
                "produces": ["application/json"],
                "tags": ["Printers"],
                "summary": "Set default printer",
                "parameters": [{"type": "string", "description": "Printer ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Default printer set", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/api/v1/printers/{id}/print": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Print"],
                "summary": "Print on printer",
                "parameters": [
                    {"type": "string", "description": "Printer ID", "name": "id", "in": "path", "required": true},
                    {"description": "Print job", "name": "job", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.PrintRequest"}}
                ],
                "responses": {
                    "200": {"description": "Print succeeded", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "502": {"description": "Printer unavailable", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "504": {"description": "Printer timed out", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/api/v1/printers/{id}/test": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Print"],
                "summary": "Test print",
                "parameters": [{"type": "string", "description": "Printer ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Test print succeeded", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/api/v1/print": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Print"],
                "summary": "Print",
                "parameters": [
                    {"description": "Print job", "name": "job", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.PrintBody"}}
                ],
                "responses": {
                    "200": {"description": "Print succeeded", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "502": {"description": "Printer unavailable", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "504": {"description": "Printer timed out", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/api/v1/print/test": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Print"],
                "summary": "Test print on default printer",
                "responses": {
                    "200": {"description": "Test print succeeded", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/api/v1/history": {
            "get": {
                "produces": ["application/json"],
                "tags": ["History"],
                "summary": "List print history",
                "parameters": [
                    {"type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Items per page", "name": "per_page", "in": "query"},
                    {"type": "string", "description": "Filter by printer name", "name": "printer_name", "in": "query"},
                    {"enum": ["success", "error", "timeout"], "type": "string", "description": "Filter by status", "name": "status", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "History retrieved", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["History"],
                "summary": "Clear print history",
                "responses": {
                    "200": {"description": "History cleared", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/api/v1/history/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["History"],
                "summary": "History statistics",
                "responses": {
                    "200": {"description": "Statistics retrieved", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/api/v1/history/settings": {
            "get": {
                "produces": ["application/json"],
                "tags": ["History"],
                "summary": "Get history settings",
                "responses": {
                    "200": {"description": "Settings retrieved", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["History"],
                "summary": "Update history settings",
                "parameters": [
                    {"description": "History settings", "name": "settings", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.HistorySettings"}}
                ],
                "responses": {
                    "200": {"description": "Settings updated", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "400": {"description": "Out of range", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "Service is healthy"},
                    "503": {"description": "Service is unhealthy"}
                }
            }
        },
        "/ready": {
            "get": {"produces": ["application/json"], "tags": ["Health"], "summary": "Readiness check", "responses": {"200": {"description": "Service is ready"}}}
        },
        "/live": {
            "get": {"produces": ["application/json"], "tags": ["Health"], "summary": "Liveness check", "responses": {"200": {"description": "Service is alive"}}}
        }
    },
    "definitions": {
        "handler.PrintBody": {
            "type": "object",
            "required": ["content"],
            "properties": {
                "content": {"type": "string"},
                "printer_id": {"type": "string"},
                "settings": {"$ref": "#/definitions/model.PrinterSettings"},
                "label_data": {"$ref": "#/definitions/model.LabelData"}
            }
        },
        "model.HistorySettings": {
            "type": "object",
            "required": ["max_history_entries"],
            "properties": {
                "max_history_entries": {"type": "integer"}
            }
        },
        "model.LabelData": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "code": {"type": "string"}
            }
        },
        "model.PrinterSettings": {
            "type": "object",
            "required": ["ip_address"],
            "properties": {
                "ip_address": {"type": "string"},
                "port": {"type": "integer"},
                "print_standard": {"type": "string", "enum": ["ESC/POS", "ZPL", "EPL"]},
                "timeout_seconds": {"type": "integer"},
                "font_size_code": {"type": "integer"}
            }
        },
        "service.PrintRequest": {
            "type": "object",
            "required": ["content"],
            "properties": {
                "content": {"type": "string"},
                "label_data": {"$ref": "#/definitions/model.LabelData"}
            }
        },
        "service.PrinterRequest": {
            "type": "object",
            "required": ["ip_address"],
            "properties": {
                "name": {"type": "string"},
                "ip_address": {"type": "string"},
                "port": {"type": "integer"},
                "print_standard": {"type": "string"},
                "timeout_seconds": {"type": "integer"},
                "font_size_code": {"type": "integer"},
                "is_default": {"type": "boolean"}
            }
        },
        "utils.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "string"}
            }
        },
        "utils.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {},
                "error": {"$ref": "#/definitions/utils.APIError"},
                "timestamp": {"type": "string"},
                "request_id": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8085",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Label Print Service API",
	Description:      "Print dispatch for ESC/POS, ZPL and EPL network label printers",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
