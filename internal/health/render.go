package health

import (
	"fmt"
	"sort"
	"strings"
)

// Render produces the JSON body for a set of check results at the given
// exposure level. The body is always a syntactically valid JSON object
// terminated by a newline.
//
// The encoder is deliberately minimal: values are reporter-controlled
// identifiers and status strings, so no general JSON escaping is applied.
func Render(level string, results []Result) string {
	var sb strings.Builder
	sb.WriteString("{\n")
	switch level {
	case ExposureOneline:
		renderOneline(&sb, results)
	case ExposureFull:
		renderFull(&sb, results)
	default:
		renderDefault(&sb, results)
	}
	sb.WriteString("}\n")
	return sb.String()
}

// overallUp holds iff no result reports DOWN. Non-binary states count as up.
func overallUp(results []Result) bool {
	for _, r := range results {
		if r.State == StateDown {
			return false
		}
	}
	return true
}

func renderOneline(sb *strings.Builder, results []Result) {
	if overallUp(results) {
		sb.WriteString("    \"status\": \"UP\"\n")
	} else {
		sb.WriteString("    \"status\": \"DOWN\"\n")
	}
}

// renderFull emits the overall status plus every result, unfiltered.
func renderFull(sb *strings.Builder, results []Result) {
	if overallUp(results) {
		sb.WriteString("    \"status\": \"UP\"")
	} else {
		sb.WriteString("    \"status\": \"DOWN\"")
	}
	if len(results) == 0 {
		sb.WriteString("\n")
		return
	}
	sb.WriteString(",\n")
	renderChecks(sb, results)
}

// renderDefault emits a terse summary: when UP there is no checks array at
// all, when DOWN only the DOWN results are listed.
func renderDefault(sb *strings.Builder, results []Result) {
	if overallUp(results) {
		sb.WriteString("    \"status\": \"UP\"\n")
		return
	}
	var down []Result
	for _, r := range results {
		if r.State == StateDown {
			down = append(down, r)
		}
	}
	sb.WriteString("    \"status\": \"DOWN\",\n")
	renderChecks(sb, down)
}

func renderChecks(sb *strings.Builder, results []Result) {
	sb.WriteString("    \"checks\": [\n")
	for i, r := range results {
		sb.WriteString("        {\n")
		sb.WriteString(strings.Join(checkFields(r), ",\n"))
		sb.WriteString("\n")
		if i < len(results)-1 {
			sb.WriteString("        },\n")
		} else {
			sb.WriteString("        }\n")
		}
	}
	sb.WriteString("    ]\n")
}

// checkFields renders one result as a list of field lines, optional fields
// omitted. The caller joins them so no trailing comma can slip in.
func checkFields(r Result) []string {
	fields := []string{
		"            \"name\": \"" + r.ID + "\"",
		"            \"status\": \"" + string(r.State) + "\"",
	}
	if r.Err != nil {
		fields = append(fields, "            \"error-message\": \""+r.Err.Error()+"\"")
	}
	if r.Message != "" {
		fields = append(fields, "            \"message\": \""+r.Message+"\"")
	}
	if len(r.Details) > 0 {
		fields = append(fields, detailBlock(r.Details))
	}
	return fields
}

// detailBlock renders the detail map with lexicographically sorted keys so
// responses stay diff-friendly across calls.
func detailBlock(details map[string]any) string {
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("            \"data\": {\n")
	for i, k := range keys {
		sb.WriteString("                 \"" + k + "\": \"" + detailValue(details[k]) + "\"")
		if i < len(keys)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("            }")
	return sb.String()
}

func detailValue(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprint(v)
}
