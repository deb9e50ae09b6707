package model

// UserAnswer 用户提交的单题答案，按题型只填写一个作答字段
// swagger:model UserAnswer
type UserAnswer struct {
	BaseModel
	UserID         uint    `gorm:"index;not null" json:"user_id"`
	QuestionID     uint    `gorm:"index;not null" json:"question_id"`
	SelectedOption string  `gorm:"size:1" json:"selected_option,omitempty"`
	AnswerText     string  `gorm:"type:text" json:"answer_text,omitempty"`
	AudioPath      string  `gorm:"size:255" json:"audio_path,omitempty"`
	AudioDuration  float64 `json:"audio_duration,omitempty"` // 秒
}

func (UserAnswer) TableName() string {
	return "user_answers"
}
