package controller

import (
	"errors"
	"jobquest_backend/internal/service"
	"jobquest_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type TestController struct {
	TestService   *service.TestService
	AnswerService *service.AnswerService
	ScoreService  *service.ScoreService
	MaxAudioBytes int64
}

func NewTestController(tests *service.TestService, answers *service.AnswerService, scores *service.ScoreService, maxAudioBytes int64) *TestController {
	return &TestController{
		TestService:   tests,
		AnswerService: answers,
		ScoreService:  scores,
		MaxAudioBytes: maxAudioBytes,
	}
}

// swagger:model CalculateScoreRequest
type CalculateScoreRequest struct {
	TestID uint `json:"test_id" binding:"required"`
}

// @Summary 试卷列表
// @Tags 测试模块
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]grading.TestView}
// @Router /api/tests/list [get]
func (c *TestController) ListTests(ctx *gin.Context) {
	tests, err := c.TestService.ListTests(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, tests)
}

// @Summary 获取试卷题目（不含答案）
// @Tags 测试模块
// @Produce json
// @Security BearerAuth
// @Param test_id path int true "试卷ID"
// @Success 200 {object} util.Response{data=[]grading.QuestionView}
// @Failure 404 {object} util.Response
// @Router /api/tests/{test_id}/questions [get]
func (c *TestController) GetQuestions(ctx *gin.Context) {
	testID, ok := pathID(ctx, "test_id")
	if !ok {
		return
	}

	questions, err := c.TestService.GetQuestions(ctx.Request.Context(), testID)
	if err != nil {
		if errors.Is(err, util.ErrTestNotFound) {
			util.NotFound(ctx, "Test not found")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// @Summary 提交答案
// @Description 每次提交追加一条记录，评分时取每题最新一次
// @Tags 测试模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.SubmitAnswerInput true "作答"
// @Success 201 {object} util.Response{data=model.UserAnswer}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/tests/submit [post]
func (c *TestController) SubmitAnswer(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubmitAnswerInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	answer, err := c.AnswerService.SubmitAnswer(ctx.Request.Context(), user.UserID, &req)
	if err != nil {
		writeAnswerError(ctx, err)
		return
	}
	util.Created(ctx, answer)
}

// @Summary 提交语音作答
// @Tags 测试模块
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param test_id path int true "试卷ID"
// @Param question_id formData int true "题目ID"
// @Param audio formData file true "录音文件"
// @Success 201 {object} util.Response{data=model.UserAnswer}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/tests/{test_id}/voice [post]
func (c *TestController) SubmitVoiceAnswer(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	testID, ok := pathID(ctx, "test_id")
	if !ok {
		return
	}
	questionID, err := util.ParseID(ctx.PostForm("question_id"))
	if err != nil {
		util.BadRequest(ctx, "invalid question_id")
		return
	}

	file, err := ctx.FormFile("audio")
	if err != nil {
		util.BadRequest(ctx, "audio file is required")
		return
	}
	if c.MaxAudioBytes > 0 && file.Size > c.MaxAudioBytes {
		util.BadRequest(ctx, "audio file too large")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	answer, err := c.AnswerService.SubmitVoiceAnswer(ctx.Request.Context(), user.UserID, testID, questionID, file.Filename, src)
	if err != nil {
		writeAnswerError(ctx, err)
		return
	}
	util.Created(ctx, answer)
}

// @Summary 计算成绩
// @Description 重新评分并覆盖该用户在此试卷的成绩
// @Tags 测试模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CalculateScoreRequest true "试卷"
// @Success 200 {object} util.Response{data=service.ScoreResult}
// @Failure 404 {object} util.Response "No questions found"
// @Router /api/tests/calculate-score [post]
func (c *TestController) CalculateScore(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CalculateScoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ScoreService.CalculateScore(ctx.Request.Context(), user.UserID, req.TestID)
	if err != nil {
		if errors.Is(err, util.ErrNoQuestions) || errors.Is(err, util.ErrTestNotFound) {
			util.NotFound(ctx, "No questions found")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 成绩复盘
// @Tags 测试模块
// @Produce json
// @Security BearerAuth
// @Param test_id path int true "试卷ID"
// @Success 200 {object} util.Response{data=grading.DetailedResult}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "尚未计算成绩"
// @Router /api/tests/{test_id}/results [get]
func (c *TestController) GetResults(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	testID, ok := pathID(ctx, "test_id")
	if !ok {
		return
	}

	result, err := c.ScoreService.GetDetailedResults(ctx.Request.Context(), user.UserID, testID)
	switch {
	case err == nil:
		util.Success(ctx, result)
	case errors.Is(err, util.ErrTestNotFound):
		util.NotFound(ctx, "Test not found")
	case errors.Is(err, util.ErrNotCompleted):
		util.Conflict(ctx, "Test not completed")
	default:
		util.LogInternalError(ctx, err)
	}
}

// @Summary 我的成绩
// @Tags 测试模块
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]repository.UserScoreRow}
// @Router /api/tests/scores [get]
func (c *TestController) ListScores(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	rows, err := c.ScoreService.ListUserScores(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// @Summary 是否已完成
// @Tags 测试模块
// @Produce json
// @Security BearerAuth
// @Param test_id path int true "试卷ID"
// @Success 200 {object} util.Response{data=service.Completion}
// @Router /api/tests/{test_id}/completion [get]
func (c *TestController) CheckCompletion(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	testID, ok := pathID(ctx, "test_id")
	if !ok {
		return
	}

	completion, err := c.ScoreService.CheckCompletion(ctx.Request.Context(), user.UserID, testID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, completion)
}

func writeAnswerError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrQuestionNotFound):
		util.NotFound(ctx, "Question not found")
	case errors.Is(err, util.ErrInvalidAnswer), errors.Is(err, util.ErrInvalidAudio):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := util.ParseID(ctx.Param(name))
	if err != nil {
		util.Error(ctx, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
