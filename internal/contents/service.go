package contents

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"picklab-api/internal/logging"
)

type ContentsServiceAPI interface {
	ListContents(t ContentType) (any, error)
	GetContent(t ContentType, code string) (any, error)
	CreateContent(t ContentType, input map[string]any) (any, error)
	UpdateContent(t ContentType, code string, input map[string]any) (any, error)
	DeleteContent(t ContentType, code string) error

	GetFoodsByCategories(filter CategoryFilter) ([]Food, error)
	RecommendFood(filter CategoryFilter) (*Food, error)
	GetContentsByType(contentType string) (any, error)
	ToggleContentStatus(code string, isActive bool) (*ToggleResult, error)
	SetContentStatus(t ContentType, code string, isActive bool) (*ToggleResult, error)
	BatchUpsert(items []BatchItem) (*BatchResult, error)
}

type ContentsService struct {
	DB     *gorm.DB
	Logger *zap.Logger

	// Pick chooses an index in [0, n). Defaults to math/rand.
	Pick func(n int) int
}

func NewContentsService(db *gorm.DB, log *zap.Logger) *ContentsService {
	return &ContentsService{DB: db, Logger: logging.OrNop(log)}
}

func (cs *ContentsService) logger() *zap.Logger {
	return logging.OrNop(cs.Logger)
}

func (cs *ContentsService) GetAllFoods() ([]Food, error) {
	var rows []Food
	if err := cs.DB.Order("food_code ASC").Find(&rows).Error; err != nil {
		cs.logger().Error("list foods failed", zap.Error(err))
		return nil, err
	}
	return rows, nil
}

func (cs *ContentsService) GetAllGames() ([]Game, error) {
	var rows []Game
	if err := cs.DB.Order("game_code ASC").Find(&rows).Error; err != nil {
		cs.logger().Error("list games failed", zap.Error(err))
		return nil, err
	}
	return rows, nil
}

func (cs *ContentsService) GetAllQuizzes() ([]Quiz, error) {
	var rows []Quiz
	if err := cs.DB.Order("quiz_code ASC").Find(&rows).Error; err != nil {
		cs.logger().Error("list quizzes failed", zap.Error(err))
		return nil, err
	}
	return rows, nil
}

func (cs *ContentsService) GetFoodByCode(code string) (*Food, error) {
	var row Food
	if err := cs.getByCode(TypeFood, code, &row); err != nil {
		return nil, nilIfNotFound(err)
	}
	return &row, nil
}

func (cs *ContentsService) GetGameByCode(code string) (*Game, error) {
	var row Game
	if err := cs.getByCode(TypeGame, code, &row); err != nil {
		return nil, nilIfNotFound(err)
	}
	return &row, nil
}

func (cs *ContentsService) GetQuizByCode(code string) (*Quiz, error) {
	var row Quiz
	if err := cs.getByCode(TypeQuiz, code, &row); err != nil {
		return nil, nilIfNotFound(err)
	}
	return &row, nil
}

func (cs *ContentsService) getByCode(t ContentType, code string, dest any) error {
	k := kinds[t]
	err := cs.DB.Where(k.codeColumn+" = ?", code).Take(dest).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		cs.logger().Error("get content failed",
			zap.String("type", string(t)), zap.String("code", code), zap.Error(err))
	}
	return err
}

// nilIfNotFound turns a lookup miss into a nil error so callers get (nil, nil).
func nilIfNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

func (cs *ContentsService) CreateFood(input map[string]any) (*Food, error) {
	row, err := cs.create(TypeFood, input)
	if err != nil {
		return nil, err
	}
	return row.(*Food), nil
}

func (cs *ContentsService) CreateGame(input map[string]any) (*Game, error) {
	row, err := cs.create(TypeGame, input)
	if err != nil {
		return nil, err
	}
	return row.(*Game), nil
}

func (cs *ContentsService) CreateQuiz(input map[string]any) (*Quiz, error) {
	row, err := cs.create(TypeQuiz, input)
	if err != nil {
		return nil, err
	}
	return row.(*Quiz), nil
}

func (cs *ContentsService) create(t ContentType, input map[string]any) (any, error) {
	k, err := kindOf(t)
	if err != nil {
		return nil, err
	}
	cols, err := normalizeInput(k, input)
	if err != nil {
		return nil, err
	}
	model, err := fillModel(k, cols)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}

	var code string
	err = cs.DB.Transaction(func(tx *gorm.DB) error {
		next, err := nextCode(tx, k)
		if err != nil {
			return err
		}
		code = next
		setCode(model, code)
		return tx.Create(model).Error
	})
	if err != nil {
		cs.logger().Error("create content failed", zap.String("type", string(t)), zap.Error(err))
		return nil, err
	}

	cs.logger().Info("content created", zap.String("type", string(t)), zap.String("code", code))
	fresh := k.newModel()
	if err := cs.getByCode(t, code, fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

func setCode(model any, code string) {
	switch m := model.(type) {
	case *Food:
		m.FoodCode = code
	case *Game:
		m.GameCode = code
	case *Quiz:
		m.QuizCode = code
	}
}

func (cs *ContentsService) UpdateFood(code string, input map[string]any) (*Food, error) {
	if err := cs.update(TypeFood, code, input); err != nil {
		return nil, err
	}
	return cs.GetFoodByCode(code)
}

func (cs *ContentsService) UpdateGame(code string, input map[string]any) (*Game, error) {
	if err := cs.update(TypeGame, code, input); err != nil {
		return nil, err
	}
	return cs.GetGameByCode(code)
}

func (cs *ContentsService) UpdateQuiz(code string, input map[string]any) (*Quiz, error) {
	if err := cs.update(TypeQuiz, code, input); err != nil {
		return nil, err
	}
	return cs.GetQuizByCode(code)
}

// update writes only the supplied columns and always stamps updated_date.
// A code that matches nothing is not an error; the re-read then yields nil.
func (cs *ContentsService) update(t ContentType, code string, input map[string]any) error {
	k, err := kindOf(t)
	if err != nil {
		return err
	}
	cols, err := normalizeInput(k, input)
	if err != nil {
		return err
	}
	cols["updated_date"] = time.Now()

	err = cs.DB.Table(k.table).Where(k.codeColumn+" = ?", code).Updates(cols).Error
	if err != nil {
		cs.logger().Error("update content failed",
			zap.String("type", string(t)), zap.String("code", code), zap.Error(err))
	}
	return err
}

func (cs *ContentsService) DeleteFood(code string) error { return cs.delete(TypeFood, code) }
func (cs *ContentsService) DeleteGame(code string) error { return cs.delete(TypeGame, code) }
func (cs *ContentsService) DeleteQuiz(code string) error { return cs.delete(TypeQuiz, code) }

func (cs *ContentsService) delete(t ContentType, code string) error {
	k, err := kindOf(t)
	if err != nil {
		return err
	}
	res := cs.DB.Where(k.codeColumn+" = ?", code).Delete(k.newModel())
	if res.Error != nil {
		cs.logger().Error("delete content failed",
			zap.String("type", string(t)), zap.String("code", code), zap.Error(res.Error))
		return res.Error
	}
	cs.logger().Info("content deleted",
		zap.String("type", string(t)), zap.String("code", code), zap.Int64("rows", res.RowsAffected))
	return nil
}

// GetFoodsByCategories returns active foods matching every non-empty axis of filter.
func (cs *ContentsService) GetFoodsByCategories(filter CategoryFilter) ([]Food, error) {
	q := cs.DB.Where("use_yn = ?", "Y")
	for i, v := range filter.values() {
		if v != "" {
			q = q.Where(fmt.Sprintf("category%d = ?", i+1), v)
		}
	}

	var rows []Food
	if err := q.Order("food_code ASC").Find(&rows).Error; err != nil {
		cs.logger().Error("filter foods failed", zap.Error(err))
		return nil, err
	}
	return rows, nil
}

func (cs *ContentsService) RecommendFood(filter CategoryFilter) (*Food, error) {
	rows, err := cs.GetFoodsByCategories(filter)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	pick := cs.Pick
	if pick == nil {
		pick = rand.IntN
	}
	return &rows[pick(len(rows))], nil
}

// GetContentsByType lists one type, or all three grouped when contentType is
// empty or unrecognized.
func (cs *ContentsService) GetContentsByType(contentType string) (any, error) {
	if t, ok := ParseContentType(contentType); ok {
		return cs.ListContents(t)
	}

	foods, err := cs.GetAllFoods()
	if err != nil {
		return nil, err
	}
	games, err := cs.GetAllGames()
	if err != nil {
		return nil, err
	}
	quizzes, err := cs.GetAllQuizzes()
	if err != nil {
		return nil, err
	}
	return &GroupedContents{Foods: foods, Games: games, Quizzes: quizzes}, nil
}

// ToggleContentStatus probes food, game and quiz in that order and flips
// use_yn on the first table holding code.
func (cs *ContentsService) ToggleContentStatus(code string, isActive bool) (*ToggleResult, error) {
	for _, t := range AllTypes {
		res, err := cs.SetContentStatus(t, code, isActive)
		if err != nil || res != nil {
			return res, err
		}
	}
	return nil, nil
}

func (cs *ContentsService) SetContentStatus(t ContentType, code string, isActive bool) (*ToggleResult, error) {
	k, err := kindOf(t)
	if err != nil {
		return nil, err
	}
	useYn := "N"
	if isActive {
		useYn = "Y"
	}

	res := cs.DB.Table(k.table).
		Where(k.codeColumn+" = ?", code).
		Updates(map[string]any{"use_yn": useYn, "updated_date": time.Now()})
	if res.Error != nil {
		cs.logger().Error("toggle content failed",
			zap.String("type", string(t)), zap.String("code", code), zap.Error(res.Error))
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	row, err := cs.GetContent(t, code)
	if err != nil {
		return nil, err
	}
	return &ToggleResult{Type: t, Data: row}, nil
}

func (cs *ContentsService) ListContents(t ContentType) (any, error) {
	switch t {
	case TypeFood:
		return cs.GetAllFoods()
	case TypeGame:
		return cs.GetAllGames()
	case TypeQuiz:
		return cs.GetAllQuizzes()
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
}

// GetContent returns an untyped nil when the row does not exist.
func (cs *ContentsService) GetContent(t ContentType, code string) (any, error) {
	switch t {
	case TypeFood:
		row, err := cs.GetFoodByCode(code)
		if row == nil {
			return nil, err
		}
		return row, nil
	case TypeGame:
		row, err := cs.GetGameByCode(code)
		if row == nil {
			return nil, err
		}
		return row, nil
	case TypeQuiz:
		row, err := cs.GetQuizByCode(code)
		if row == nil {
			return nil, err
		}
		return row, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
}

func (cs *ContentsService) CreateContent(t ContentType, input map[string]any) (any, error) {
	return cs.create(t, input)
}

func (cs *ContentsService) UpdateContent(t ContentType, code string, input map[string]any) (any, error) {
	if err := cs.update(t, code, input); err != nil {
		return nil, err
	}
	return cs.GetContent(t, code)
}

func (cs *ContentsService) DeleteContent(t ContentType, code string) error {
	return cs.delete(t, code)
}

// Snapshot returns the current row for the audit trail, or nil. An empty
// contentType probes every table in toggle order.
func (cs *ContentsService) Snapshot(contentType, code string) any {
	if contentType == "" {
		for _, t := range AllTypes {
			if row, _ := cs.GetContent(t, code); row != nil {
				return row
			}
		}
		return nil
	}
	t, ok := ParseContentType(contentType)
	if !ok {
		return nil
	}
	row, _ := cs.GetContent(t, code)
	return row
}
