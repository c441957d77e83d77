package contents

import (
	"time"
)

type ContentType string

const (
	TypeFood ContentType = "food"
	TypeGame ContentType = "game"
	TypeQuiz ContentType = "quiz"
)

// AllTypes is also the probing order of ToggleContentStatus.
var AllTypes = []ContentType{TypeFood, TypeGame, TypeQuiz}

func ParseContentType(s string) (ContentType, bool) {
	switch ContentType(s) {
	case TypeFood, TypeGame, TypeQuiz:
		return ContentType(s), true
	}
	return "", false
}

type Food struct {
	FoodCode    string     `gorm:"primaryKey;size:20;column:food_code" json:"food_code"`
	FoodName    string     `gorm:"size:100;not null;column:food_name" json:"food_name"`
	FoodEmoji   *string    `gorm:"size:20;column:food_emoji" json:"food_emoji"`
	Category1   *string    `gorm:"size:50;column:category1" json:"category1"`
	Category2   *string    `gorm:"size:50;column:category2" json:"category2"`
	Category3   *string    `gorm:"size:50;column:category3" json:"category3"`
	Category4   *string    `gorm:"size:50;column:category4" json:"category4"`
	Category5   *string    `gorm:"size:50;column:category5" json:"category5"`
	UseYn       string     `gorm:"size:1;not null;default:'Y';column:use_yn" json:"use_yn"`
	CreatedUser *string    `gorm:"size:50;column:created_user" json:"created_user"`
	CreatedDate time.Time  `gorm:"column:created_date;autoCreateTime" json:"created_date"`
	UpdatedUser *string    `gorm:"size:50;column:updated_user" json:"updated_user"`
	UpdatedDate *time.Time `gorm:"column:updated_date" json:"updated_date"`
}

func (Food) TableName() string {
	return "tbl_food_info"
}

// Categories returns category1..category5 in order, "" for unset axes.
func (f Food) Categories() [5]string {
	var out [5]string
	for i, p := range []*string{f.Category1, f.Category2, f.Category3, f.Category4, f.Category5} {
		if p != nil {
			out[i] = *p
		}
	}
	return out
}

type Game struct {
	GameCode      string     `gorm:"primaryKey;size:20;column:game_code" json:"game_code"`
	GameName      string     `gorm:"size:100;not null;column:game_name" json:"game_name"`
	GameDesc      *string    `gorm:"type:text;column:game_desc" json:"game_desc"`
	GameEmoji     *string    `gorm:"size:20;column:game_emoji" json:"game_emoji"`
	GameDifficult *string    `gorm:"size:10;column:game_difficult" json:"game_difficult"`
	UseYn         string     `gorm:"size:1;not null;default:'Y';column:use_yn" json:"use_yn"`
	CreatedUser   *string    `gorm:"size:50;column:created_user" json:"created_user"`
	CreatedDate   time.Time  `gorm:"column:created_date;autoCreateTime" json:"created_date"`
	UpdatedUser   *string    `gorm:"size:50;column:updated_user" json:"updated_user"`
	UpdatedDate   *time.Time `gorm:"column:updated_date" json:"updated_date"`
}

func (Game) TableName() string {
	return "tbl_game_info"
}

type Quiz struct {
	QuizCode     string     `gorm:"primaryKey;size:20;column:quiz_code" json:"quiz_code"`
	QuizName     string     `gorm:"size:100;not null;column:quiz_name" json:"quiz_name"`
	QuizDesc     *string    `gorm:"type:text;column:quiz_desc" json:"quiz_desc"`
	QuizEmoji    *string    `gorm:"size:20;column:quiz_emoji" json:"quiz_emoji"`
	QuizCategory *string    `gorm:"size:50;column:quiz_category" json:"quiz_category"`
	UseYn        string     `gorm:"size:1;not null;default:'Y';column:use_yn" json:"use_yn"`
	CreatedUser  *string    `gorm:"size:50;column:created_user" json:"created_user"`
	CreatedDate  time.Time  `gorm:"column:created_date;autoCreateTime" json:"created_date"`
	UpdatedUser  *string    `gorm:"size:50;column:updated_user" json:"updated_user"`
	UpdatedDate  *time.Time `gorm:"column:updated_date" json:"updated_date"`
}

func (Quiz) TableName() string {
	return "tbl_quiz_info"
}

// CategoryFilter holds the optional equality filters of the food search.
// Empty fields do not constrain the result.
type CategoryFilter struct {
	Category1 string `form:"category1" json:"category1"`
	Category2 string `form:"category2" json:"category2"`
	Category3 string `form:"category3" json:"category3"`
	Category4 string `form:"category4" json:"category4"`
	Category5 string `form:"category5" json:"category5"`
}

func (f CategoryFilter) values() [5]string {
	return [5]string{f.Category1, f.Category2, f.Category3, f.Category4, f.Category5}
}

type GroupedContents struct {
	Foods   []Food `json:"foods"`
	Games   []Game `json:"games"`
	Quizzes []Quiz `json:"quizzes"`
}

type ToggleResult struct {
	Type ContentType `json:"type"`
	Data any         `json:"data"`
}

type BatchItem struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

type BatchRequest struct {
	Items []BatchItem `json:"items"`
}

type BatchItemResult struct {
	Type   string `json:"type"`
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// BatchResult carries either Message (nothing to do) or the per-item results.
type BatchResult struct {
	Message        string            `json:"message,omitempty"`
	ProcessedCount int               `json:"processed_count,omitempty"`
	Results        []BatchItemResult `json:"results,omitempty"`
}
