// Package docs 手工维护的 Swagger 文档，与 handler 注解保持一致，注册到 swag 供 /swagger 使用
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
        "/api/v1/chat": {
            "get": {
                "description": "返回当前浏览器会话的输入框内容、对话历史与图片状态",
                "produces": ["application/json"],
                "tags": ["对话"],
                "summary": "获取对话状态",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ChatStateEnvelope"}},
                    "500": {"description": "会话读取失败", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/api/v1/chat/clear": {
            "post": {
                "description": "输入框恢复默认提示语，对话历史重置为问候语，并移除图片",
                "produces": ["application/json"],
                "tags": ["对话"],
                "summary": "清除对话",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ChatStateEnvelope"}},
                    "500": {"description": "会话写入失败", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/api/v1/chat/submit": {
            "post": {
                "description": "基于当前胸片提问，返回清空后的输入框内容、更新后的对话历史与本次请求终态",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["对话"],
                "summary": "发送问题",
                "parameters": [
                    {
                        "description": "问题与可选采样参数",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/model.SubmitChatRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SubmitEnvelope"}},
                    "400": {"description": "请求参数错误", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "500": {"description": "会话或图片读取失败", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "503": {"description": "排队时请求被取消", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/api/v1/image": {
            "post": {
                "description": "通过 multipart/form-data 上传胸片，替换会话中的图片并重置输入框与对话历史",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["图片"],
                "summary": "上传胸片",
                "parameters": [
                    {"type": "file", "description": "胸片图片（png/jpeg/gif）", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ChatStateEnvelope"}},
                    "400": {"description": "文件缺失或不是图片", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "413": {"description": "文件过大", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "500": {"description": "存储失败", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            },
            "delete": {
                "description": "移除会话中的图片并重置输入框与对话历史",
                "produces": ["application/json"],
                "tags": ["图片"],
                "summary": "移除胸片",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ChatStateEnvelope"}},
                    "500": {"description": "会话写入失败", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/api/v1/examples": {
            "get": {
                "produces": ["application/json"],
                "tags": ["图片"],
                "summary": "示例胸片列表",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ExamplesEnvelope"}}
                }
            }
        },
        "/api/v1/examples/{name}": {
            "post": {
                "description": "将示例胸片设为会话图片，效果等同清除后上传",
                "produces": ["application/json"],
                "tags": ["图片"],
                "summary": "选择示例胸片",
                "parameters": [
                    {"type": "string", "description": "示例文件名", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ChatStateEnvelope"}},
                    "404": {"description": "示例不存在", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["系统"],
                "summary": "存活检查",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["系统"],
                "summary": "就绪检查",
                "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}
            }
        }
    },
    "definitions": {
        "http.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "message": {"type": "string"},
                "detail": {"type": "string"}
            }
        },
        "ChatStateEnvelope": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "message": {"type": "string"},
                "data": {"$ref": "#/definitions/model.ChatStateResponse"}
            }
        },
        "SubmitEnvelope": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "message": {"type": "string"},
                "data": {"$ref": "#/definitions/model.SubmitChatResponse"}
            }
        },
        "ExamplesEnvelope": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "message": {"type": "string"},
                "data": {"type": "array", "items": {"$ref": "#/definitions/model.ExampleImage"}}
            }
        },
        "model.Turn": {
            "type": "object",
            "properties": {
                "user": {"type": "string"},
                "assistant": {"type": "string"}
            }
        },
        "model.Image": {
            "type": "object",
            "properties": {
                "key": {"type": "string"},
                "name": {"type": "string"},
                "content_type": {"type": "string"},
                "url": {"type": "string"},
                "example": {"type": "boolean"}
            }
        },
        "model.ChatStateResponse": {
            "type": "object",
            "properties": {
                "text": {"type": "string"},
                "transcript": {"type": "array", "items": {"$ref": "#/definitions/model.Turn"}},
                "has_image": {"type": "boolean"},
                "image": {"$ref": "#/definitions/model.Image"}
            }
        },
        "model.SubmitChatRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string"},
                "temperature": {"type": "number", "maximum": 1, "minimum": 0},
                "top_p": {"type": "number", "maximum": 1, "minimum": 0}
            }
        },
        "model.SubmitChatResponse": {
            "type": "object",
            "properties": {
                "text": {"type": "string"},
                "transcript": {"type": "array", "items": {"$ref": "#/definitions/model.Turn"}},
                "state": {"type": "string"}
            }
        },
        "model.ExampleImage": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "size": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "XrayChat API",
	Description:      "胸片多模态对话演示服务",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
