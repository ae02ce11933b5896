// Package docs holds the Swagger spec served under /swagger. It mirrors the
// swag annotations in cmd/main.go and internal/api/handlers.
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
        "/api/v1/convert": {
            "get": {
                "description": "Downloads the audio track through the configured providers, stores it as mp3/<fileName> and returns its public URL",
                "produces": ["application/json"],
                "tags": ["convert"],
                "summary": "Convert a YouTube video to MP3 and publish it",
                "parameters": [
                    {"type": "string", "description": "YouTube URL", "name": "youtubelink", "in": "query"},
                    {"type": "string", "description": "YouTube URL (alias of youtubelink)", "name": "youtubeUrl", "in": "query"},
                    {"type": "string", "description": "Requested file name", "name": "fileName", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ConvertSuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ConvertErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ConvertErrorResponse"}}
                }
            },
            "post": {
                "description": "Downloads the audio track through the configured providers, stores it as mp3/<fileName> and returns its public URL",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["convert"],
                "summary": "Convert a YouTube video to MP3 and publish it",
                "parameters": [
                    {"description": "Conversion request", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/models.ConvertRequestBody"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ConvertSuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ConvertErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ConvertErrorResponse"}}
                }
            }
        },
        "/convert": {
            "get": {
                "description": "Downloads the audio track through the configured providers, stores it as mp3/<fileName> and returns its public URL",
                "produces": ["application/json"],
                "tags": ["convert"],
                "summary": "Convert a YouTube video to MP3 and publish it",
                "parameters": [
                    {"type": "string", "description": "YouTube URL", "name": "youtubelink", "in": "query"},
                    {"type": "string", "description": "YouTube URL (alias of youtubelink)", "name": "youtubeUrl", "in": "query"},
                    {"type": "string", "description": "Requested file name", "name": "fileName", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ConvertSuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ConvertErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ConvertErrorResponse"}}
                }
            },
            "post": {
                "description": "Downloads the audio track through the configured providers, stores it as mp3/<fileName> and returns its public URL",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["convert"],
                "summary": "Convert a YouTube video to MP3 and publish it",
                "parameters": [
                    {"description": "Conversion request", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/models.ConvertRequestBody"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ConvertSuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ConvertErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ConvertErrorResponse"}}
                }
            }
        },
        "/convert/{link}": {
            "get": {
                "description": "The remainder of the path after /convert/ is taken as the YouTube URL",
                "produces": ["application/json"],
                "tags": ["convert"],
                "summary": "Convert a YouTube video given in the path",
                "parameters": [
                    {"type": "string", "description": "YouTube URL", "name": "link", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ConvertSuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ConvertErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ConvertErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Check the health of the service and its content store",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check endpoint",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}}
                }
            }
        },
        "/live": {
            "get": {
                "description": "Check if the service is alive",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness check endpoint",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/ready": {
            "get": {
                "description": "Check if the service has the configuration it needs to convert",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness check endpoint",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        }
    },
    "definitions": {
        "handlers.HealthResponse": {
            "type": "object",
            "properties": {
                "services": {"type": "object", "additionalProperties": {"$ref": "#/definitions/handlers.ServiceHealth"}},
                "status": {"type": "string"},
                "timestamp": {"type": "string"},
                "version": {"type": "string"}
            }
        },
        "handlers.ServiceHealth": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "response_time": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "models.ConvertErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "integer"},
                "message": {"type": "string"}
            }
        },
        "models.ConvertRequestBody": {
            "type": "object",
            "properties": {
                "fileName": {"type": "string"},
                "youtubeUrl": {"type": "string"},
                "youtubelink": {"type": "string"}
            }
        },
        "models.ConvertSuccessResponse": {
            "type": "object",
            "properties": {
                "downloadUrl": {"type": "string"},
                "error": {"type": "integer"},
                "file": {"type": "string"},
                "fileName": {"type": "string"},
                "name": {"type": "string"},
                "streamLink": {"type": "string"},
                "success": {"type": "boolean"},
                "title": {"type": "string"},
                "url": {"type": "string"},
                "videoTitle": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "YouTube to MP3 Converter API",
	Description:      "Converts YouTube videos to MP3 through third-party providers and publishes the result to a content store.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
