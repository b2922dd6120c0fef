package api

import (
	"net/http"

	"github.com/swaggo/swag"
)

// SwaggerInfo holds the exported OpenAPI description of the REST API.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "twinkey API",
	Description:      "Element key codec and element catalog for digital twin data.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

const swaggerUI = `<!DOCTYPE html>
<html>
<head>
	<title>twinkey API Documentation</title>
	<link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui.css" />
</head>
<body>
	<div id="swagger-ui"></div>
	<script src="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui-bundle.js"></script>
	<script>
		window.onload = function() {
			SwaggerUIBundle({
				url: '/swagger/swagger.json',
				dom_id: '#swagger-ui',
				presets: [SwaggerUIBundle.presets.apis, SwaggerUIBundle.presets.standalone]
			});
		};
	</script>
</body>
</html>`

// handleSwagger serves the Swagger UI and the registered OpenAPI document
func (s *Server) handleSwagger(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/swagger/", "/swagger/index.html":
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerUI))
	case "/swagger/swagger.json":
		doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
		if err != nil {
			s.logger.Error("failed to render swagger doc", "error", err)
			http.Error(w, "Failed to generate Swagger documentation", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	default:
		http.NotFound(w, r)
	}
}

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "X-API-Key", "in": "header"}
    },
    "security": [{"ApiKeyAuth": []}],
    "paths": {
        "/health": {
            "get": {"tags": ["health"], "summary": "Health check", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}}}}
        },
        "/stats": {
            "get": {"tags": ["catalog"], "summary": "Catalog statistics", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}}}}
        },
        "/keys/full": {
            "post": {"tags": ["keys"], "summary": "Convert a short key to a full key",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.KeyRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.KeyResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}}}}
        },
        "/keys/short": {
            "post": {"tags": ["keys"], "summary": "Convert a full key to a short key",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.KeyRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.KeyResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}}}}
        },
        "/keys/guid": {
            "post": {"tags": ["keys"], "summary": "Render a 20-byte key as a GUID string",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.KeyRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.GUIDResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}}}}
        },
        "/keys/sysid": {
            "post": {"tags": ["keys"], "summary": "Derive the system id of a key",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.KeyRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.SystemIDResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}}}}
        },
        "/keys/xref": {
            "post": {"tags": ["keys"], "summary": "Build an xref key",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.XrefRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.KeyResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}}}}
        },
        "/keys/xref/decode": {
            "post": {"tags": ["keys"], "summary": "Split an xref key",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.KeyRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/keys.Xref"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}}}}
        },
        "/keys/array/decode": {
            "post": {"tags": ["keys"], "summary": "Decode a packed short-key array",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.ArrayRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.KeysResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}}}}
        },
        "/keys/xref-array/decode": {
            "post": {"tags": ["keys"], "summary": "Decode a packed xref-key array",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.ArrayRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.XrefsResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}}}}
        },
        "/elements/{model}": {
            "get": {"tags": ["catalog"], "summary": "List the elements of a model",
                "parameters": [{"in": "path", "name": "model", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/structure.Element"}}}}}
        },
        "/elements/{model}/{key}": {
            "get": {"tags": ["catalog"], "summary": "Get an element",
                "parameters": [{"in": "path", "name": "model", "type": "string", "required": true}, {"in": "path", "name": "key", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/structure.Element"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.APIResponse"}}}},
            "put": {"tags": ["catalog"], "summary": "Store an element",
                "parameters": [{"in": "path", "name": "model", "type": "string", "required": true}, {"in": "path", "name": "key", "type": "string", "required": true}, {"in": "body", "name": "element", "required": true, "schema": {"$ref": "#/definitions/structure.Element"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/structure.Element"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}}}},
            "delete": {"tags": ["catalog"], "summary": "Remove an element",
                "parameters": [{"in": "path", "name": "model", "type": "string", "required": true}, {"in": "path", "name": "key", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.APIResponse"}}}}
        },
        "/levels/{model}": {
            "get": {"tags": ["catalog"], "summary": "List the levels of a model with their elevation",
                "parameters": [{"in": "path", "name": "model", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/structure.Element"}}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}}}}
        },
        "/rooms/{model}": {
            "get": {"tags": ["catalog"], "summary": "List the rooms of a model",
                "parameters": [{"in": "path", "name": "model", "type": "string", "required": true}, {"in": "query", "name": "level", "type": "string", "required": false}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/structure.Element"}}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}}}}
        },
        "/structure": {
            "post": {"tags": ["structure"], "summary": "Assemble a facility structure",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.StructureRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.StructureResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}}}}
        },
        "/streams/hosts": {
            "post": {"tags": ["structure"], "summary": "Resolve the host elements of a model's streams",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.StreamsRequest"}}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/snapshots": {
            "get": {"tags": ["structure"], "summary": "List saved structure snapshots", "responses": {"200": {"description": "OK"}}}
        },
        "/snapshots/{id}": {
            "get": {"tags": ["structure"], "summary": "Get a structure snapshot",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        }
    },
    "definitions": {
        "api.APIResponse": {"type": "object", "properties": {"success": {"type": "boolean"}, "data": {}, "error": {"type": "string"}}},
        "api.KeyRequest": {"type": "object", "properties": {"key": {"type": "string"}, "logical": {"type": "boolean"}}},
        "api.KeyResponse": {"type": "object", "properties": {"key": {"type": "string"}}},
        "api.GUIDResponse": {"type": "object", "properties": {"guid": {"type": "string"}}},
        "api.SystemIDResponse": {"type": "object", "properties": {"system_id": {"type": "string"}, "value": {"type": "integer"}}},
        "api.XrefRequest": {"type": "object", "properties": {"model_id": {"type": "string"}, "element_key": {"type": "string"}}},
        "api.ArrayRequest": {"type": "object", "properties": {"text": {"type": "string"}, "full_keys": {"type": "boolean"}, "logical": {"type": "boolean"}, "strict": {"type": "boolean"}}},
        "api.KeysResponse": {"type": "object", "properties": {"keys": {"type": "array", "items": {"type": "string"}}, "count": {"type": "integer"}}},
        "api.XrefsResponse": {"type": "object", "properties": {"xrefs": {"type": "array", "items": {"$ref": "#/definitions/keys.Xref"}}, "count": {"type": "integer"}}},
        "api.StructureRequest": {"type": "object", "properties": {"facility_urn": {"type": "string"}, "models": {"type": "array", "items": {"type": "string"}}, "save": {"type": "boolean"}}},
        "api.StructureResponse": {"type": "object", "properties": {"snapshot_id": {"type": "string"}, "tree": {"type": "string"}, "snapshot": {"type": "object"}}},
        "api.StreamsRequest": {"type": "object", "properties": {"model_id": {"type": "string"}}},
        "keys.Xref": {"type": "object", "properties": {"model_id": {"type": "string"}, "element_key": {"type": "string"}}},
        "structure.Element": {"type": "object", "properties": {"key": {"type": "string"}, "name": {"type": "string"}, "flags": {"type": "integer"}, "elevation": {"type": "number"}, "level": {"type": "string"}, "rooms": {"type": "string"}, "xrooms": {"type": "string"}, "parent": {"type": "string"}}}
    }
}`
