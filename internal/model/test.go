package model

// swagger:model Test
type Test struct {
	BaseModel
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Difficulty  string     `gorm:"size:32" json:"difficulty"`
	Questions   []Question `gorm:"foreignKey:TestID" json:"-"`
}

func (Test) TableName() string {
	return "tests"
}
