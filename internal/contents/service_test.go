package contents

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func strPtr(s string) *string {
	return &s
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%d?mode=memory&cache=shared", time.Now().UnixNano())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(&Food{}, &Game{}, &Quiz{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	return db
}

func newTestService(t *testing.T) (*ContentsService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewContentsService(db, nil), db
}

func seedFoods(t *testing.T, db *gorm.DB, foods ...Food) {
	t.Helper()
	for i := range foods {
		if foods[i].UseYn == "" {
			foods[i].UseYn = "Y"
		}
		if err := db.Create(&foods[i]).Error; err != nil {
			t.Fatalf("seed food %s: %v", foods[i].FoodCode, err)
		}
	}
}

func TestContentsService_GetAllFoods_Empty(t *testing.T) {
	svc, _ := newTestService(t)

	got, err := svc.GetAllFoods()
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if got == nil {
		t.Fatalf("expected empty slice, got nil")
	}
	if len(got) != 0 {
		t.Fatalf("expected 0, got %d", len(got))
	}
}

func TestContentsService_GetAllFoods_OrderedByCode(t *testing.T) {
	svc, db := newTestService(t)
	seedFoods(t, db,
		Food{FoodCode: "F003", FoodName: "C"},
		Food{FoodCode: "F001", FoodName: "A"},
		Food{FoodCode: "F002", FoodName: "B"},
	)

	got, err := svc.GetAllFoods()
	if err != nil {
		t.Fatalf("GetAllFoods: %v", err)
	}
	if len(got) != 3 || got[0].FoodCode != "F001" || got[2].FoodCode != "F003" {
		t.Fatalf("unexpected order: %#v", got)
	}
}

func TestContentsService_GetByCode_MissingReturnsNil(t *testing.T) {
	svc, _ := newTestService(t)

	food, err := svc.GetFoodByCode("F404")
	if err != nil || food != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", food, err)
	}

	row, err := svc.GetContent(TypeQuiz, "Q404")
	if err != nil {
		t.Fatalf("GetContent: %v", err)
	}
	if row != nil {
		t.Fatalf("expected untyped nil, got %#v", row)
	}
}

func TestContentsService_Create_SequentialCodesPerType(t *testing.T) {
	svc, _ := newTestService(t)

	for i, want := range []string{"F001", "F002", "F003"} {
		food, err := svc.CreateFood(map[string]any{"name": fmt.Sprintf("food %d", i)})
		if err != nil {
			t.Fatalf("CreateFood: %v", err)
		}
		if food.FoodCode != want {
			t.Fatalf("code=%s want %s", food.FoodCode, want)
		}
	}

	game, err := svc.CreateGame(map[string]any{"name": "Roulette"})
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if game.GameCode != "G001" {
		t.Fatalf("game code=%s want G001", game.GameCode)
	}

	quiz, err := svc.CreateQuiz(map[string]any{"quizName": "MBTI"})
	if err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}
	if quiz.QuizCode != "Q001" {
		t.Fatalf("quiz code=%s want Q001", quiz.QuizCode)
	}
}

func TestContentsService_Create_ContinuesFromMax(t *testing.T) {
	svc, db := newTestService(t)
	seedFoods(t, db,
		Food{FoodCode: "F009", FoodName: "a"},
		Food{FoodCode: "F010", FoodName: "b"},
		Food{FoodCode: "F002", FoodName: "c"},
	)

	food, err := svc.CreateFood(map[string]any{"name": "next"})
	if err != nil {
		t.Fatalf("CreateFood: %v", err)
	}
	if food.FoodCode != "F011" {
		t.Fatalf("code=%s want F011", food.FoodCode)
	}
}

func TestContentsService_Create_PastNineHundredNinetyNine(t *testing.T) {
	svc, db := newTestService(t)
	seedFoods(t, db,
		Food{FoodCode: "F999", FoodName: "a"},
		Food{FoodCode: "F1000", FoodName: "b"},
	)

	food, err := svc.CreateFood(map[string]any{"name": "next"})
	if err != nil {
		t.Fatalf("CreateFood: %v", err)
	}
	if food.FoodCode != "F1001" {
		t.Fatalf("code=%s want F1001", food.FoodCode)
	}
}

func TestContentsService_Create_SkipsMalformedCodes(t *testing.T) {
	svc, db := newTestService(t)
	seedFoods(t, db,
		Food{FoodCode: "F001", FoodName: "a"},
		Food{FoodCode: "Fxyz", FoodName: "legacy"},
	)

	for _, want := range []string{"F002", "F003"} {
		food, err := svc.CreateFood(map[string]any{"name": "next"})
		if err != nil {
			t.Fatalf("CreateFood: %v", err)
		}
		if food.FoodCode != want {
			t.Fatalf("code=%s want %s", food.FoodCode, want)
		}
	}
}

func TestContentsService_Create_RoundTripsInputWithDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.CreateFood(map[string]any{
		"foodName":  "Bibimbap",
		"foodEmoji": "🍚",
		"category1": "Korean",
		"category3": "Savory",
	})
	if err != nil {
		t.Fatalf("CreateFood: %v", err)
	}

	got, err := svc.GetFoodByCode(created.FoodCode)
	if err != nil || got == nil {
		t.Fatalf("GetFoodByCode: %v %v", got, err)
	}
	if got.FoodName != "Bibimbap" || *got.FoodEmoji != "🍚" {
		t.Fatalf("unexpected row: %#v", got)
	}
	if *got.Category1 != "Korean" || *got.Category3 != "Savory" || got.Category2 != nil {
		t.Fatalf("unexpected categories: %v", got.Categories())
	}
	if got.UseYn != "Y" {
		t.Fatalf("use_yn=%q want Y", got.UseYn)
	}
	if got.CreatedUser == nil || *got.CreatedUser != "admin" {
		t.Fatalf("created_user=%v want admin", got.CreatedUser)
	}
	if got.CreatedDate.IsZero() {
		t.Fatalf("expected created_date to be set")
	}
	if got.UpdatedDate != nil {
		t.Fatalf("expected nil updated_date on create")
	}
}

func TestContentsService_Create_GameDefaultsDifficulty(t *testing.T) {
	svc, _ := newTestService(t)

	game, err := svc.CreateGame(map[string]any{"name": "Ladder", "desc": "pick a line"})
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if game.GameDifficult == nil || *game.GameDifficult != "L" {
		t.Fatalf("game_difficult=%v want L", game.GameDifficult)
	}
	if game.GameDesc == nil || *game.GameDesc != "pick a line" {
		t.Fatalf("game_desc=%v", game.GameDesc)
	}
}

func TestContentsService_Create_IgnoresSuppliedCode(t *testing.T) {
	svc, _ := newTestService(t)

	food, err := svc.CreateFood(map[string]any{"food_code": "F999", "code": "X1", "name": "Ramen"})
	if err != nil {
		t.Fatalf("CreateFood: %v", err)
	}
	if food.FoodCode != "F001" {
		t.Fatalf("code=%s want F001", food.FoodCode)
	}
}

func TestContentsService_Create_SnakeKeyWinsOverAlias(t *testing.T) {
	svc, _ := newTestService(t)

	food, err := svc.CreateFood(map[string]any{"food_name": "snake", "foodName": "camel", "name": "alias"})
	if err != nil {
		t.Fatalf("CreateFood: %v", err)
	}
	if food.FoodName != "snake" {
		t.Fatalf("food_name=%q want snake", food.FoodName)
	}
}

func TestContentsService_Create_EmptySnakeValueFallsBackToCamel(t *testing.T) {
	svc, _ := newTestService(t)

	row, err := svc.CreateContent(TypeFood, map[string]any{"food_name": "", "foodName": "Kimchi Stew"})
	if err != nil {
		t.Fatalf("CreateContent: %v", err)
	}
	food := row.(*Food)
	if food.FoodName != "Kimchi Stew" {
		t.Fatalf("food_name=%q want Kimchi Stew", food.FoodName)
	}
}

func TestContentsService_Create_UnknownFieldRejected(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateFood(map[string]any{"name": "x", "category9": "y"})
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}

	all, _ := svc.GetAllFoods()
	if len(all) != 0 {
		t.Fatalf("expected no rows written, got %d", len(all))
	}
}

func TestContentsService_Create_InvalidValueRejected(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateFood(map[string]any{"name": map[string]any{"nested": true}})
	if !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
}

func TestContentsService_Update_EmptyInputOnlyStampsUpdatedDate(t *testing.T) {
	svc, db := newTestService(t)
	seedFoods(t, db, Food{FoodCode: "F001", FoodName: "Tteokbokki", Category1: strPtr("Korean"), CreatedUser: strPtr("admin")})

	got, err := svc.UpdateFood("F001", map[string]any{})
	if err != nil {
		t.Fatalf("UpdateFood: %v", err)
	}
	if got == nil {
		t.Fatalf("expected row")
	}
	if got.FoodName != "Tteokbokki" || *got.Category1 != "Korean" || got.UseYn != "Y" || *got.CreatedUser != "admin" {
		t.Fatalf("fields changed: %#v", got)
	}
	if got.UpdatedDate == nil {
		t.Fatalf("expected updated_date to be stamped")
	}
}

func TestContentsService_Update_PartialFields(t *testing.T) {
	svc, db := newTestService(t)
	seedFoods(t, db, Food{
		FoodCode:  "F001",
		FoodName:  "Pizza",
		FoodEmoji: strPtr("🍕"),
		Category1: strPtr("Western"),
		Category2: strPtr("Bread"),
	})

	got, err := svc.UpdateFood("F001", map[string]any{
		"name":      "Pizza Margherita",
		"category2": "Cheese",
		"useYn":     "N",
		"code":      "F777",
		"foodCode":  "F778",
		"order":     3,
	})
	if err != nil {
		t.Fatalf("UpdateFood: %v", err)
	}
	if got == nil || got.FoodCode != "F001" {
		t.Fatalf("expected F001 row, got %#v", got)
	}
	if got.FoodName != "Pizza Margherita" || *got.Category2 != "Cheese" || got.UseYn != "N" {
		t.Fatalf("update not applied: %#v", got)
	}
	if *got.FoodEmoji != "🍕" || *got.Category1 != "Western" {
		t.Fatalf("absent fields must be left alone: %#v", got)
	}

	moved, _ := svc.GetFoodByCode("F777")
	if moved != nil {
		t.Fatalf("code must be immutable")
	}
}

func TestContentsService_Update_NullClearsOptionalColumn(t *testing.T) {
	svc, db := newTestService(t)
	seedFoods(t, db, Food{FoodCode: "F001", FoodName: "Sushi", Category4: strPtr("Expensive")})

	got, err := svc.UpdateFood("F001", map[string]any{"category4": nil})
	if err != nil {
		t.Fatalf("UpdateFood: %v", err)
	}
	if got.Category4 != nil {
		t.Fatalf("expected category4 cleared, got %q", *got.Category4)
	}
}

func TestContentsService_Update_MissingCodeReturnsNil(t *testing.T) {
	svc, _ := newTestService(t)

	got, err := svc.UpdateGame("G404", map[string]any{"name": "x"})
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil row, got %#v", got)
	}
}

func TestContentsService_Delete_AlwaysSucceeds(t *testing.T) {
	svc, db := newTestService(t)
	seedFoods(t, db, Food{FoodCode: "F001", FoodName: "Soup"})

	if err := svc.DeleteFood("F001"); err != nil {
		t.Fatalf("DeleteFood: %v", err)
	}
	if got, _ := svc.GetFoodByCode("F001"); got != nil {
		t.Fatalf("expected row gone")
	}
	if err := svc.DeleteFood("F001"); err != nil {
		t.Fatalf("second delete should still succeed: %v", err)
	}
}

func TestContentsService_GetFoodsByCategories(t *testing.T) {
	svc, db := newTestService(t)
	seedFoods(t, db,
		Food{FoodCode: "F001", FoodName: "Kimchi Stew", Category1: strPtr("Korean"), Category2: strPtr("Soup")},
		Food{FoodCode: "F002", FoodName: "Bibimbap", Category1: strPtr("Korean"), Category2: strPtr("Rice")},
		Food{FoodCode: "F003", FoodName: "Pasta", Category1: strPtr("Western")},
		Food{FoodCode: "F004", FoodName: "Hidden", Category1: strPtr("Korean"), UseYn: "N"},
		Food{FoodCode: "F005", FoodName: "Plain"},
	)

	all, err := svc.GetFoodsByCategories(CategoryFilter{})
	if err != nil {
		t.Fatalf("GetFoodsByCategories: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected all 4 active foods, got %d", len(all))
	}
	for _, f := range all {
		if f.UseYn != "Y" {
			t.Fatalf("inactive food returned: %s", f.FoodCode)
		}
	}

	korean, err := svc.GetFoodsByCategories(CategoryFilter{Category1: "Korean"})
	if err != nil {
		t.Fatalf("GetFoodsByCategories: %v", err)
	}
	if len(korean) != 2 || korean[0].FoodCode != "F001" || korean[1].FoodCode != "F002" {
		t.Fatalf("unexpected korean foods: %#v", korean)
	}

	rice, err := svc.GetFoodsByCategories(CategoryFilter{Category1: "Korean", Category2: "Rice"})
	if err != nil {
		t.Fatalf("GetFoodsByCategories: %v", err)
	}
	if len(rice) != 1 || rice[0].FoodCode != "F002" {
		t.Fatalf("unexpected rice foods: %#v", rice)
	}
}

func TestContentsService_RecommendFood(t *testing.T) {
	svc, db := newTestService(t)
	seedFoods(t, db,
		Food{FoodCode: "F001", FoodName: "A", Category1: strPtr("Korean")},
		Food{FoodCode: "F002", FoodName: "B", Category1: strPtr("Korean")},
		Food{FoodCode: "F003", FoodName: "C", Category1: strPtr("Japanese")},
	)

	var gotN int
	svc.Pick = func(n int) int {
		gotN = n
		return n - 1
	}

	food, err := svc.RecommendFood(CategoryFilter{Category1: "Korean"})
	if err != nil {
		t.Fatalf("RecommendFood: %v", err)
	}
	if gotN != 2 {
		t.Fatalf("expected pick among 2 candidates, got %d", gotN)
	}
	if food == nil || food.FoodCode != "F002" {
		t.Fatalf("unexpected pick: %#v", food)
	}

	none, err := svc.RecommendFood(CategoryFilter{Category1: "Thai"})
	if err != nil || none != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", none, err)
	}
}

func TestContentsService_GetContentsByType(t *testing.T) {
	svc, db := newTestService(t)
	seedFoods(t, db, Food{FoodCode: "F001", FoodName: "A"})
	if err := db.Create(&Game{GameCode: "G001", GameName: "Roulette", UseYn: "Y"}).Error; err != nil {
		t.Fatalf("seed game: %v", err)
	}

	games, err := svc.GetContentsByType("game")
	if err != nil {
		t.Fatalf("GetContentsByType: %v", err)
	}
	if list, ok := games.([]Game); !ok || len(list) != 1 {
		t.Fatalf("expected []Game with 1 row, got %#v", games)
	}

	for _, typ := range []string{"", "unknown"} {
		res, err := svc.GetContentsByType(typ)
		if err != nil {
			t.Fatalf("GetContentsByType(%q): %v", typ, err)
		}
		grouped, ok := res.(*GroupedContents)
		if !ok {
			t.Fatalf("expected grouped result, got %T", res)
		}
		if len(grouped.Foods) != 1 || len(grouped.Games) != 1 || grouped.Quizzes == nil || len(grouped.Quizzes) != 0 {
			t.Fatalf("unexpected grouping: %#v", grouped)
		}
	}
}

func TestContentsService_ToggleContentStatus_OnlyTouchesMatchingTable(t *testing.T) {
	svc, db := newTestService(t)
	seedFoods(t, db, Food{FoodCode: "F001", FoodName: "A"})
	if err := db.Create(&Game{GameCode: "G001", GameName: "Roulette", UseYn: "Y"}).Error; err != nil {
		t.Fatalf("seed game: %v", err)
	}
	if err := db.Create(&Quiz{QuizCode: "Q001", QuizName: "MBTI", UseYn: "Y"}).Error; err != nil {
		t.Fatalf("seed quiz: %v", err)
	}

	res, err := svc.ToggleContentStatus("G001", false)
	if err != nil {
		t.Fatalf("ToggleContentStatus: %v", err)
	}
	if res == nil || res.Type != TypeGame {
		t.Fatalf("expected game result, got %#v", res)
	}
	game, ok := res.Data.(*Game)
	if !ok || game.UseYn != "N" || game.UpdatedDate == nil {
		t.Fatalf("unexpected data: %#v", res.Data)
	}

	food, _ := svc.GetFoodByCode("F001")
	quiz, _ := svc.GetQuizByCode("Q001")
	if food.UseYn != "Y" || food.UpdatedDate != nil || quiz.UseYn != "Y" || quiz.UpdatedDate != nil {
		t.Fatalf("other tables must be untouched: %#v %#v", food, quiz)
	}
}

func TestContentsService_ToggleContentStatus_NoMatch(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.ToggleContentStatus("X001", true)
	if err != nil || res != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", res, err)
	}
}

func TestContentsService_SetContentStatus_Typed(t *testing.T) {
	svc, db := newTestService(t)
	seedFoods(t, db, Food{FoodCode: "F001", FoodName: "A", UseYn: "N"})

	res, err := svc.SetContentStatus(TypeGame, "F001", true)
	if err != nil || res != nil {
		t.Fatalf("wrong type must not match: (%v, %v)", res, err)
	}

	res, err = svc.SetContentStatus(TypeFood, "F001", true)
	if err != nil {
		t.Fatalf("SetContentStatus: %v", err)
	}
	if res == nil || res.Type != TypeFood || res.Data.(*Food).UseYn != "Y" {
		t.Fatalf("unexpected result: %#v", res)
	}

	if _, err := svc.SetContentStatus("drink", "F001", true); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestContentsService_Snapshot(t *testing.T) {
	svc, db := newTestService(t)
	seedFoods(t, db, Food{FoodCode: "F001", FoodName: "A"})

	if got, ok := svc.Snapshot("food", "F001").(*Food); !ok || got.FoodCode != "F001" {
		t.Fatalf("expected food snapshot, got %#v", got)
	}
	if got, ok := svc.Snapshot("", "F001").(*Food); !ok || got.FoodName != "A" {
		t.Fatalf("expected probed snapshot, got %#v", got)
	}
	if got := svc.Snapshot("game", "F001"); got != nil {
		t.Fatalf("expected nil snapshot, got %#v", got)
	}
	if got := svc.Snapshot("common_master", "1"); got != nil {
		t.Fatalf("expected nil snapshot for non-content type, got %#v", got)
	}
}

func TestContentsService_KimchiStewLifecycle(t *testing.T) {
	svc, db := newTestService(t)
	seedFoods(t, db, Food{FoodCode: "F041", FoodName: "Existing"})

	created, err := svc.CreateContent(TypeFood, map[string]any{"name": "Kimchi Stew", "category1": "Korean"})
	if err != nil {
		t.Fatalf("CreateContent: %v", err)
	}
	food := created.(*Food)
	if food.FoodCode != "F042" || food.UseYn != "Y" {
		t.Fatalf("unexpected created row: %#v", food)
	}

	if _, err := svc.ToggleContentStatus(food.FoodCode, false); err != nil {
		t.Fatalf("ToggleContentStatus: %v", err)
	}
	again, _ := svc.GetFoodByCode(food.FoodCode)
	if again.UseYn != "N" {
		t.Fatalf("use_yn=%q want N", again.UseYn)
	}

	if err := svc.DeleteContent(TypeFood, food.FoodCode); err != nil {
		t.Fatalf("DeleteContent: %v", err)
	}
	if gone, _ := svc.GetContent(TypeFood, food.FoodCode); gone != nil {
		t.Fatalf("expected nil after delete")
	}
}
