package grading

import "fmt"

type MissReason string

const (
	MissUnknownType     MissReason = "unknown_type"
	MissMissingQuestion MissReason = "missing_question"
)

// Miss 是不致命的评分异常：记录日志后按"答错"处理，不中断计分
type Miss struct {
	Reason     MissReason
	QuestionID uint
	AnswerID   uint
	Detail     string
}

func (m *Miss) Error() string {
	if m.Detail != "" {
		return fmt.Sprintf("grading miss (%s): %s", m.Reason, m.Detail)
	}
	return fmt.Sprintf("grading miss (%s): question %d", m.Reason, m.QuestionID)
}
