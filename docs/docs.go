// Package docs 由 swag init 生成，修改接口注释后请重新生成
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
        "/api/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["系统"],
                "summary": "健康检查",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/api/register": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["认证"],
                "summary": "注册新用户",
                "parameters": [
                    {"type": "string", "description": "用户名", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "description": "邮箱", "name": "email", "in": "formData", "required": true},
                    {"type": "string", "description": "密码", "name": "password", "in": "formData", "required": true},
                    {"type": "file", "description": "头像", "name": "profile_pic", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "创建成功", "schema": {"$ref": "#/definitions/util.Response"}},
                    "400": {"description": "请求参数错误", "schema": {"$ref": "#/definitions/util.Response"}},
                    "409": {"description": "邮箱或用户名已被注册", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/api/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["认证"],
                "summary": "用户登录",
                "parameters": [
                    {"description": "登录信息", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controller.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "token 与用户信息", "schema": {"$ref": "#/definitions/util.Response"}},
                    "401": {"description": "邮箱或密码错误", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/api/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["认证"],
                "summary": "当前用户信息",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}
            }
        },
        "/api/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["认证"],
                "summary": "退出登录",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}
            }
        },
        "/api/tests/list": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["测试模块"],
                "summary": "试卷列表",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}
            }
        },
        "/api/tests/scores": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["测试模块"],
                "summary": "我的成绩",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}
            }
        },
        "/api/tests/submit": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "每次提交追加一条记录，评分时取每题最新一次",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["测试模块"],
                "summary": "提交答案",
                "parameters": [
                    {"description": "作答", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.SubmitAnswerInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/util.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/util.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/api/tests/calculate-score": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "重新评分并覆盖该用户在此试卷的成绩",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["测试模块"],
                "summary": "计算成绩",
                "parameters": [
                    {"description": "试卷", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controller.CalculateScoreRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}},
                    "404": {"description": "No questions found", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/api/tests/{test_id}/questions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["测试模块"],
                "summary": "获取试卷题目（不含答案）",
                "parameters": [{"type": "integer", "description": "试卷ID", "name": "test_id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/api/tests/{test_id}/voice": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["测试模块"],
                "summary": "提交语音作答",
                "parameters": [
                    {"type": "integer", "description": "试卷ID", "name": "test_id", "in": "path", "required": true},
                    {"type": "integer", "description": "题目ID", "name": "question_id", "in": "formData", "required": true},
                    {"type": "file", "description": "录音文件", "name": "audio", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/util.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/util.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/api/tests/{test_id}/results": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["测试模块"],
                "summary": "成绩复盘",
                "parameters": [{"type": "integer", "description": "试卷ID", "name": "test_id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/util.Response"}},
                    "409": {"description": "尚未计算成绩", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/api/tests/{test_id}/completion": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["测试模块"],
                "summary": "是否已完成",
                "parameters": [{"type": "integer", "description": "试卷ID", "name": "test_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}
            }
        },
        "/api/admin/tests": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["管理员"],
                "summary": "创建试卷",
                "parameters": [
                    {"description": "试卷与题目", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.CreateTestInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/util.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        }
    },
    "definitions": {
        "controller.CalculateScoreRequest": {
            "type": "object",
            "required": ["test_id"],
            "properties": {"test_id": {"type": "integer"}}
        },
        "controller.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "service.SubmitAnswerInput": {
            "type": "object",
            "required": ["question_id"],
            "properties": {
                "answer_text": {"type": "string"},
                "is_mcq": {"type": "boolean"},
                "question_id": {"type": "integer"}
            }
        },
        "service.QuestionInput": {
            "type": "object",
            "required": ["prompt", "type"],
            "properties": {
                "correct_answer": {"type": "string"},
                "correct_option": {"type": "string"},
                "options": {"type": "object", "additionalProperties": {"type": "string"}},
                "prompt": {"type": "string"},
                "type": {"type": "string", "enum": ["mcq", "text"]}
            }
        },
        "service.CreateTestInput": {
            "type": "object",
            "required": ["questions", "title"],
            "properties": {
                "description": {"type": "string"},
                "difficulty": {"type": "string"},
                "questions": {"type": "array", "items": {"$ref": "#/definitions/service.QuestionInput"}},
                "title": {"type": "string"}
            }
        },
        "util.Response": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {},
                "message": {"type": "string"}
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
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "JobQuest 测验后端 API",
	Description:      "JobQuest 求职测验平台：答题、评分与成绩复盘。",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
