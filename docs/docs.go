// Package docs registers the OpenAPI description served under /api-docs.
package docs

import "github.com/swaggo/swag"

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
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register a new user",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/Credentials"}}],
                "responses": {"201": {"description": "User registered successfully"}, "400": {"description": "Required fields missing"}, "409": {"description": "Email already registered"}}
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Log in a user",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/Credentials"}}],
                "responses": {"200": {"description": "Login successful"}, "401": {"description": "Invalid credentials"}, "404": {"description": "User not found"}}
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Log out the current session",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Logout successful"}, "401": {"description": "Invalid token"}}
            }
        },
        "/auth/profile": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current user",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "The authenticated user"}}
            }
        },
        "/users/profile/{userId}": {
            "get": {
                "tags": ["Users"],
                "summary": "Public user profile",
                "parameters": [{"in": "path", "name": "userId", "type": "string", "required": true}],
                "responses": {"200": {"description": "Profile"}, "400": {"description": "User not found"}, "404": {"description": "User not found"}}
            }
        },
        "/categories": {
            "get": {
                "tags": ["Categories"],
                "summary": "List categories",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Categories, newest first"}}
            },
            "post": {
                "tags": ["Categories"],
                "summary": "Create a category",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/Category"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Category already exists"}}
            }
        },
        "/categories/{categoryId}": {
            "put": {
                "tags": ["Categories"],
                "summary": "Update a category",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "categoryId", "type": "string", "required": true}],
                "responses": {"200": {"description": "Updated"}, "404": {"description": "Category not found"}}
            },
            "delete": {
                "tags": ["Categories"],
                "summary": "Delete a category",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "categoryId", "type": "string", "required": true}],
                "responses": {"200": {"description": "Category deleted successfully"}, "409": {"description": "Category still used by products"}}
            }
        },
        "/products": {
            "get": {
                "tags": ["Products"],
                "summary": "List products",
                "parameters": [
                    {"in": "query", "name": "category_id", "type": "string"},
                    {"in": "query", "name": "seller_id", "type": "string"},
                    {"in": "query", "name": "status", "type": "string", "enum": ["active", "closed"]},
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "page_size", "type": "integer"}
                ],
                "responses": {"200": {"description": "A page of products"}}
            },
            "post": {
                "tags": ["Products"],
                "summary": "List a product for auction",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/Product"}}],
                "responses": {"201": {"description": "Product added successfully"}, "400": {"description": "Invalid listing"}}
            }
        },
        "/products/{id}": {
            "get": {
                "tags": ["Products"],
                "summary": "Product with its bids",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "Product and bids"}, "404": {"description": "Product not found"}}
            },
            "put": {
                "tags": ["Products"],
                "summary": "Update a listing",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "Updated"}, "403": {"description": "Not the seller"}, "409": {"description": "Auction closed"}}
            },
            "delete": {
                "tags": ["Products"],
                "summary": "Remove a listing",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "Product deleted successfully"}, "409": {"description": "Product has bids"}}
            }
        },
        "/products/{id}/bids": {
            "get": {
                "tags": ["Bids"],
                "summary": "Bids on a product, highest first",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "Bids"}}
            },
            "post": {
                "tags": ["Bids"],
                "summary": "Place a bid on a product",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"type": "object", "properties": {"amount": {"type": "number"}}}}
                ],
                "responses": {"201": {"description": "Bid placed successfully"}, "403": {"description": "Own product"}, "409": {"description": "Bid too low or auction closed"}}
            }
        },
        "/products/bid": {
            "post": {
                "tags": ["Bids"],
                "summary": "Place a bid",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"type": "object", "properties": {"product_id": {"type": "string"}, "bid_amount": {"type": "number"}}}}],
                "responses": {"201": {"description": "Bid placed successfully"}}
            }
        }
    },
    "definitions": {
        "Credentials": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}, "name": {"type": "string"}}
        },
        "Category": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "description": {"type": "string"}}
        },
        "Product": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "category_id": {"type": "string"},
                "starting_bid": {"type": "number"},
                "auction_end_time": {"type": "string", "format": "date-time"},
                "images": {"type": "array", "items": {"type": "string"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Peram Marketplace API",
	Description:      "Second-hand marketplace with live product auctions",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
