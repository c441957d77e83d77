package spreadsheet

import (
	"fmt"
	"strings"

	"picklab-api/internal/commoncode"
	"picklab-api/internal/contents"
)

const categoryAxes = 5

// categoryAxis holds the active details of one CATEGORYn master.
type categoryAxis struct {
	header  string
	labels  map[string]string // detail_code -> label
	reverse map[string]string // detail_name or detail_code -> detail_code
}

func categoryMaster(n int) string {
	return fmt.Sprintf("CATEGORY%d", n)
}

func newCategoryAxis(n int, master *commoncode.CommonMaster, details []commoncode.CommonDetail) categoryAxis {
	axis := categoryAxis{
		header:  fmt.Sprintf("카테고리%d", n),
		labels:  make(map[string]string, len(details)),
		reverse: make(map[string]string, len(details)*2),
	}
	if master != nil && master.MasterDesc != nil && strings.TrimSpace(*master.MasterDesc) != "" {
		axis.header = strings.TrimSpace(*master.MasterDesc)
	}
	for _, d := range details {
		axis.labels[d.DetailCode] = d.Label()
		axis.reverse[d.DetailCode] = d.DetailCode
		if d.DetailName != nil && *d.DetailName != "" {
			axis.reverse[*d.DetailName] = d.DetailCode
		}
	}
	return axis
}

// label renders a stored category value; unknown values are shown as stored.
func (a categoryAxis) label(stored string) string {
	if l, ok := a.labels[stored]; ok {
		return l
	}
	return stored
}

// resolve maps a cell to a detail code by name or code, keeping unmatched text.
func (a categoryAxis) resolve(cell string) string {
	if code, ok := a.reverse[cell]; ok {
		return code
	}
	return cell
}

// layout describes the column order of one content type after the fixed
// name, emoji, useYn prefix.
type layout struct {
	extraHeaders []string
	extraColumns []string
}

func layoutFor(t contents.ContentType, axes []categoryAxis) layout {
	switch t {
	case contents.TypeFood:
		l := layout{}
		for i, a := range axes {
			l.extraHeaders = append(l.extraHeaders, a.header)
			l.extraColumns = append(l.extraColumns, fmt.Sprintf("category%d", i+1))
		}
		return l
	case contents.TypeGame:
		return layout{
			extraHeaders: []string{"gameDesc", "gameDifficult"},
			extraColumns: []string{"game_desc", "game_difficult"},
		}
	case contents.TypeQuiz:
		return layout{
			extraHeaders: []string{"quizDesc", "quizCategory"},
			extraColumns: []string{"quiz_desc", "quiz_category"},
		}
	}
	return layout{}
}

func (l layout) headers() []string {
	return append([]string{"name", "emoji", "useYn"}, l.extraHeaders...)
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// exportRows flattens a ListContents result into sheet rows.
func exportRows(rows any, axes []categoryAxis) ([][]string, error) {
	var out [][]string
	switch list := rows.(type) {
	case []contents.Food:
		for _, f := range list {
			row := []string{f.FoodName, deref(f.FoodEmoji), f.UseYn}
			for i, v := range f.Categories() {
				if i < len(axes) {
					v = axes[i].label(v)
				}
				row = append(row, v)
			}
			out = append(out, row)
		}
	case []contents.Game:
		for _, g := range list {
			out = append(out, []string{g.GameName, deref(g.GameEmoji), g.UseYn, deref(g.GameDesc), deref(g.GameDifficult)})
		}
	case []contents.Quiz:
		for _, q := range list {
			out = append(out, []string{q.QuizName, deref(q.QuizEmoji), q.UseYn, deref(q.QuizDesc), deref(q.QuizCategory)})
		}
	default:
		return nil, fmt.Errorf("unexpected content list %T", rows)
	}
	return out, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// rowInput turns one positional sheet row into a batch item payload.
func rowInput(t contents.ContentType, l layout, axes []categoryAxis, row []string) (map[string]any, error) {
	name := cell(row, 0)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	prefix := string(t)
	data := map[string]any{prefix + "_name": name}
	if emoji := cell(row, 1); emoji != "" {
		data[prefix+"_emoji"] = emoji
	}
	if useYn := strings.ToUpper(cell(row, 2)); useYn != "" {
		if useYn != "Y" && useYn != "N" {
			return nil, fmt.Errorf("useYn must be Y or N, got %q", useYn)
		}
		data["use_yn"] = useYn
	}

	for i, col := range l.extraColumns {
		v := cell(row, 3+i)
		if v == "" {
			continue
		}
		if t == contents.TypeFood && i < len(axes) {
			v = axes[i].resolve(v)
		}
		data[col] = v
	}
	return data, nil
}

func codeOf(data any) string {
	switch v := data.(type) {
	case *contents.Food:
		return v.FoodCode
	case *contents.Game:
		return v.GameCode
	case *contents.Quiz:
		return v.QuizCode
	}
	return ""
}
