package nrcc

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Messages returned when a response carries no usable data.
const (
	NoResults = "No results found."
	NoDetails = "No chemical details found."
)

const (
	missing   = "N/A"
	separator = "-------------------------"
)

// listFields are rendered for each record, in order.
var listFields = []struct{ label, key string }{
	{"化学品名称", "chemName"},
	{"CAS号", "chemCas"},
	{"化学品别名", "chemAlias"},
	{"化学品英文名", "chemEnglishName"},
	{"idenDataId", "idenDataId"},
}

// detailFields are rendered for a record, in order. list marks fields that
// hold arrays and are joined with ", ".
var detailFields = []struct {
	label, key string
	list       bool
}{
	{"化学品名称", "chemName", false},
	{"危险性类别", "riskCategory", false},
	{"危险性说明", "riskDesc", false},
	{"象形图", "pictogramCodes", true},
	{"外观与性状", "apperanceShape", false},
	{"熔点", "meltPoint", false},
	{"沸点", "boilPoint", false},
	{"相对密度", "relativeDensity", false},
	{"闪点", "flashPoint", false},
	{"溶解性", "solubilty", false},
	{"健康危害", "healthHazard", false},
	{"职业接触限值", "careerContactLimit", false},
	{"环境危害", "environmentHazard", false},
	{"急救措施", "firstMeasure", false},
	{"灭火方法", "adviceProjectExtinguish", false},
	{"理化特性", "parameterFeaturesArr", true},
	{"泄漏措施", "leakageMeasure", false},
}

// FormatList renders the records of a list search. Records are separated by
// a dashed line and a blank line.
func FormatList(doc Document) string {
	obj, ok := doc["obj"].(map[string]any)
	if !ok {
		return NoResults
	}
	records, ok := obj["records"].([]any)
	if !ok || len(records) == 0 {
		return NoResults
	}

	blocks := make([]string, 0, len(records))
	for _, r := range records {
		record, ok := r.(map[string]any)
		if !ok {
			continue
		}
		var b strings.Builder
		for _, f := range listFields {
			fmt.Fprintf(&b, "%s: %s\n", f.label, scalar(record, f.key))
		}
		b.WriteString(separator + "\n")
		blocks = append(blocks, b.String())
	}
	if len(blocks) == 0 {
		return NoResults
	}
	return strings.Join(blocks, "\n")
}

// FormatDetail renders a detail lookup.
func FormatDetail(doc Document) string {
	obj, ok := doc["obj"].(map[string]any)
	if !ok {
		return NoDetails
	}

	var b strings.Builder
	for _, f := range detailFields {
		v := scalar(obj, f.key)
		if f.list {
			v = joined(obj, f.key)
		}
		fmt.Fprintf(&b, "%s: %s\n", f.label, v)
	}
	return b.String()
}

func scalar(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return missing
	}
	return text(v)
}

// joined renders an array field. A missing field renders empty.
func joined(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	items, ok := v.([]any)
	if !ok {
		return text(v)
	}
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = text(item)
	}
	return strings.Join(parts, ", ")
}

func text(v any) string {
	switch val := v.(type) {
	case nil:
		return missing
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}
