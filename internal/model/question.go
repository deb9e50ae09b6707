package model

type QuestionType string

const (
	QuestionMCQ  QuestionType = "mcq"
	QuestionText QuestionType = "text"
)

// OptionLabels 选择题固定四个选项
var OptionLabels = []string{"A", "B", "C", "D"}

// Question 题目。CorrectOption 只对 mcq 有效，CorrectAnswer 只对 text 有效，二者都不会序列化给客户端
// swagger:model Question
type Question struct {
	BaseModel
	TestID        uint         `gorm:"index;not null" json:"test_id"`
	Type          QuestionType `gorm:"size:16;not null" json:"type"`
	Prompt        string       `gorm:"type:text;not null" json:"prompt"`
	OptionA       string       `gorm:"size:255" json:"option_a,omitempty"`
	OptionB       string       `gorm:"size:255" json:"option_b,omitempty"`
	OptionC       string       `gorm:"size:255" json:"option_c,omitempty"`
	OptionD       string       `gorm:"size:255" json:"option_d,omitempty"`
	CorrectOption string       `gorm:"size:1" json:"-"`
	CorrectAnswer string       `gorm:"type:text" json:"-"`
}

func (Question) TableName() string {
	return "questions"
}

// Options 按标签顺序返回选项，非选择题返回 nil
func (q *Question) Options() map[string]string {
	if q.Type != QuestionMCQ {
		return nil
	}
	return map[string]string{
		"A": q.OptionA,
		"B": q.OptionB,
		"C": q.OptionC,
		"D": q.OptionD,
	}
}
