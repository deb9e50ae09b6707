package controller

import (
	"errors"
	"jobquest_backend/internal/grading"
	"jobquest_backend/internal/service"
	"jobquest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	TestService *service.TestService
}

func NewAdminController(tests *service.TestService) *AdminController {
	return &AdminController{TestService: tests}
}

// @Summary 创建试卷
// @Tags 管理员
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateTestInput true "试卷与题目"
// @Success 201 {object} util.Response{data=grading.TestView}
// @Failure 400 {object} util.Response
// @Router /api/admin/tests [post]
func (c *AdminController) CreateTest(ctx *gin.Context) {
	var req service.CreateTestInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	test, err := c.TestService.CreateTest(ctx.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, util.ErrInvalidQuestion) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	view, err := grading.ViewOfTest(test)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, view)
}
