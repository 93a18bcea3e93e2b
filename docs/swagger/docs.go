// Package swagger registers the OpenAPI document served at /swagger/*.
package swagger

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
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "in": "header", "name": "X-API-Key"}
    },
    "security": [{"ApiKeyAuth": []}],
    "paths": {
        "/libraries/sync": {
            "get": {
                "description": "Result of the most recent catalog, local and account load.",
                "produces": ["application/json"],
                "tags": ["libraries"],
                "summary": "Library sync report",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/libraries.Report"}},
                    "404": {"description": "Bootstrap has not run", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/libraries/{kind}": {
            "get": {
                "description": "Listings of a kind, optionally fuzzy searched, filtered by dimension and grouped.",
                "produces": ["application/json"],
                "tags": ["libraries"],
                "summary": "List library listings",
                "parameters": [
                    {"type": "string", "description": "Kind slug (statblocks, spells, encounters, persistentcharacters)", "name": "kind", "in": "path", "required": true},
                    {"type": "string", "description": "Fuzzy search over name and search hint", "name": "q", "in": "query"},
                    {"type": "string", "description": "Group by 'path' or a filter dimension such as 'Level'", "name": "group", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/library.ListingMeta"}}},
                    "404": {"description": "Unknown kind", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/libraries/{kind}/{id}": {
            "get": {
                "description": "Full item for a listing. Missing backend data yields the kind default carrying the listing metadata.",
                "produces": ["application/json"],
                "tags": ["libraries"],
                "summary": "Get library item",
                "parameters": [
                    {"type": "string", "description": "Kind slug", "name": "kind", "in": "path", "required": true},
                    {"type": "string", "description": "Item id", "name": "id", "in": "path", "required": true},
                    {"type": "boolean", "description": "Drop the cached item and fetch again", "name": "refresh", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Unknown kind or id", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "put": {
                "description": "Decodes the body over the kind default and saves it locally and, when configured, to the account. Unknown ids are created.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["libraries"],
                "summary": "Save library item",
                "parameters": [
                    {"type": "string", "description": "Kind slug", "name": "kind", "in": "path", "required": true},
                    {"type": "string", "description": "Item id", "name": "id", "in": "path", "required": true},
                    {"description": "Full item", "name": "item", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Body is not a valid item", "schema": {"$ref": "#/definitions/Error"}},
                    "404": {"description": "Unknown kind", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "delete": {
                "description": "Removes the listing and deletes the item from local storage and the account.",
                "tags": ["libraries"],
                "summary": "Delete library item",
                "parameters": [
                    {"type": "string", "description": "Kind slug", "name": "kind", "in": "path", "required": true},
                    {"type": "string", "description": "Item id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Unknown kind or id", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/libraries/persistentcharacters/{id}": {
            "patch": {
                "description": "Fields left out keep their current values. A new StatBlock also replaces Name, Path and Version.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["libraries"],
                "summary": "Update persistent character",
                "parameters": [
                    {"type": "string", "description": "Character id", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "update", "in": "body", "required": true, "schema": {"$ref": "#/definitions/items.PersistentCharacterUpdate"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Body is not a valid update", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/statblocks/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Catalog listings",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/library.ListingMeta"}}},
                    "502": {"description": "Catalog unavailable", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/statblocks/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Catalog item",
                "parameters": [{"type": "string", "description": "Item id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not published", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/spells/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Catalog listings",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/library.ListingMeta"}}},
                    "502": {"description": "Catalog unavailable", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/spells/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Catalog item",
                "parameters": [{"type": "string", "description": "Item id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not published", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        }
    },
    "definitions": {
        "Error": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "items.PersistentCharacterUpdate": {
            "type": "object",
            "properties": {
                "Name": {"type": "string"},
                "Path": {"type": "string"},
                "Version": {"type": "string"},
                "StatBlock": {"type": "object"},
                "CurrentHP": {"type": "integer"},
                "TemporaryHP": {"type": "integer"},
                "Notes": {"type": "string"},
                "ImageURL": {"type": "string"}
            }
        },
        "library.ListingMeta": {
            "type": "object",
            "properties": {
                "Id": {"type": "string"},
                "Name": {"type": "string"},
                "Path": {"type": "string"},
                "SearchHint": {"type": "string"},
                "FilterDimensions": {"type": "object", "additionalProperties": {"type": "string"}},
                "Link": {"type": "string"},
                "LastUpdateMs": {"type": "integer"}
            }
        },
        "libraries.SyncState": {
            "type": "object",
            "properties": {
                "kind": {"type": "string"},
                "server": {"type": "string", "enum": ["skipped", "ok", "failed"]},
                "local": {"type": "string", "enum": ["skipped", "ok", "failed"]},
                "account": {"type": "string", "enum": ["skipped", "ok", "failed"]},
                "listings": {"type": "integer"},
                "loaded": {
                    "type": "object",
                    "properties": {
                        "server": {"type": "integer"},
                        "local": {"type": "integer"},
                        "account": {"type": "integer"}
                    }
                },
                "errors": {"type": "array", "items": {"type": "string"}}
            }
        },
        "libraries.Report": {
            "type": "object",
            "properties": {
                "startedAt": {"type": "string"},
                "finishedAt": {"type": "string"},
                "kinds": {"type": "array", "items": {"$ref": "#/definitions/libraries.SyncState"}},
                "unsynced": {"type": "object"},
                "progress": {"type": "array", "items": {"type": "object"}},
                "error": {"type": "string"}
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
	Title:            "Improved Initiative Library API",
	Description:      "Content libraries reconciled from the server catalog, local storage and the account.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
