// Package docs registers the Swagger spec for swaggo/gin-swagger. Normally
// produced by `swag init` from the handlers' annotation comments; maintained
// by hand here since the generator isn't run as part of this build.
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
        "/health": {
            "get": {
                "tags": ["System"],
                "summary": "Health Check",
                "responses": {
                    "200": { "description": "Service is healthy" }
                }
            }
        },
        "/capacity": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Steganography"],
                "summary": "Calculate embedding capacity",
                "parameters": [
                    { "type": "file", "name": "carrier", "in": "formData", "required": true },
                    { "type": "integer", "name": "bits_per_frame", "in": "formData", "required": false },
                    { "type": "integer", "name": "payload_size", "in": "formData", "required": false },
                    { "type": "boolean", "name": "vigenere", "in": "formData", "required": false }
                ],
                "responses": {
                    "200": { "description": "OK" },
                    "400": { "description": "Bad Request" },
                    "500": { "description": "Internal Server Error" }
                }
            }
        },
        "/embed": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["audio/mpeg"],
                "tags": ["Steganography"],
                "summary": "Embed a payload into an MP3's bitstream",
                "parameters": [
                    { "type": "file", "name": "carrier", "in": "formData", "required": true },
                    { "type": "file", "name": "payload", "in": "formData", "required": true },
                    { "type": "integer", "name": "bits_per_frame", "in": "formData", "required": false },
                    { "type": "string", "name": "key", "in": "formData", "required": false },
                    { "type": "boolean", "name": "vigenere", "in": "formData", "required": false }
                ],
                "responses": {
                    "200": { "description": "Stego MP3 with embedded payload" },
                    "400": { "description": "Bad Request" },
                    "500": { "description": "Internal Server Error" }
                }
            }
        },
        "/extract": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/octet-stream"],
                "tags": ["Steganography"],
                "summary": "Extract a payload from a stego MP3",
                "parameters": [
                    { "type": "file", "name": "stego", "in": "formData", "required": true },
                    { "type": "integer", "name": "bits_per_frame", "in": "formData", "required": false },
                    { "type": "string", "name": "key", "in": "formData", "required": false },
                    { "type": "boolean", "name": "vigenere", "in": "formData", "required": false }
                ],
                "responses": {
                    "200": { "description": "Recovered payload file" },
                    "400": { "description": "Bad Request" },
                    "500": { "description": "Internal Server Error" }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "MP3 Bit-Domain Steganography API",
	Description:      "Embeds and extracts payloads in the Huffman main-data region of an MP3 bitstream without re-encoding audio.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
