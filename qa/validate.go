package qa

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
)

// allowedQuestionTypes lists the metadata.question_type values a dataset may
// carry.
var allowedQuestionTypes = map[string]bool{
	QuestionDescriptive:            true,
	QuestionPredictive:             true,
	QuestionCounterfactualVelocity: true,
	QuestionCounterfactualPosition: true,
}

var (
	willRe  = regexp.MustCompile(`\bwill\b`)
	wouldRe = regexp.MustCompile(`\bwould\b`)
)

// DetectTense is the heuristic tense detector used for consistency checks:
// "future" when the option contains the word "will", "conditional" for
// "would", "base" otherwise.
func DetectTense(option string) Tense {
	if willRe.MatchString(option) {
		return TenseFuture
	}
	if wouldRe.MatchString(option) {
		return TenseConditional
	}
	return TenseBase
}

// ValidationReport summarizes one validation pass. It reports and never
// mutates: a dataset with issues is returned as-is alongside the findings.
type ValidationReport struct {
	Total          int            `json:"total"`
	CountsByType   map[string]int `json:"counts_by_type"`
	NumOptionsHist map[int]int    `json:"num_options_hist"`
	NumCorrectHist map[int]int    `json:"num_correct_hist"`
	Issues         []string       `json:"issues"`
}

// questionGroup keys question_index_within_shot sequences per shot and type.
type questionGroup struct {
	SimID        string
	QuestionType string
}

// ValidateFile runs the full consistency check suite over a jsonl QA file:
// JSON parse and schema integrity, option/ground-truth structure, duplicate
// options, tense consistency with question_type, and dense 0-based
// question_index_within_shot sequencing per (sim_id, question_type) group.
// Issue collection stops after maxIssues.
func ValidateFile(path string, maxIssues int) (*ValidationReport, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	report := &ValidationReport{
		CountsByType:   make(map[string]int),
		NumOptionsHist: make(map[int]int),
		NumCorrectHist: make(map[int]int),
	}
	groupIndices := make(map[questionGroup][]int)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	lineIdx := -1
	for scanner.Scan() {
		lineIdx++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		report.Total++

		var ex map[string]any
		if err := json.Unmarshal(line, &ex); err != nil {
			report.addIssue(maxIssues, "line %d: JSON decode error: %v", lineIdx, err)
			if report.full(maxIssues) {
				break
			}
			continue
		}

		validateEntrySchema(report, ex, lineIdx, maxIssues)
		if report.full(maxIssues) {
			break
		}

		options := anySlice(ex["options"])
		gt := anySlice(ex["ground_truth"])
		meta, _ := ex["metadata"].(map[string]any)
		qType, _ := meta["question_type"].(string)

		if allowedQuestionTypes[qType] {
			report.CountsByType[qType]++
		}
		report.NumOptionsHist[len(options)]++
		correct := 0
		for _, v := range gt {
			if isInt(v) {
				correct++
			}
		}
		report.NumCorrectHist[correct]++

		validateTenseConsistency(report, ex, lineIdx, maxIssues)
		if report.full(maxIssues) {
			break
		}

		if simID, ok := meta["sim_id"]; ok && qType != "" {
			if qIdx, present := meta["question_index_within_shot"]; present {
				if isInt(qIdx) {
					key := questionGroup{SimID: fmt.Sprint(simID), QuestionType: qType}
					groupIndices[key] = append(groupIndices[key], int(qIdx.(float64)))
				} else {
					report.addIssue(maxIssues, "line %d: question_index_within_shot is not an int (value=%v)", lineIdx, qIdx)
					if report.full(maxIssues) {
						break
					}
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}

	validateQuestionIndices(report, groupIndices, maxIssues)
	return report, nil
}

// validateEntrySchema performs basic schema and type checks for one example.
func validateEntrySchema(report *ValidationReport, ex map[string]any, lineIdx, maxIssues int) {
	if _, ok := ex["video"].(string); !ok {
		report.addIssue(maxIssues, "line %d: 'video' missing or not a string", lineIdx)
	}
	if _, ok := ex["question"].(string); !ok {
		report.addIssue(maxIssues, "line %d: 'question' missing or not a string", lineIdx)
	}

	options := anySlice(ex["options"])
	if len(options) == 0 {
		report.addIssue(maxIssues, "line %d: 'options' missing, not a list, or empty", lineIdx)
	} else {
		for i, opt := range options {
			if _, ok := opt.(string); !ok {
				report.addIssue(maxIssues, "line %d: option[%d] is not a string (type=%T)", lineIdx, i, opt)
			}
		}
	}

	gt := anySlice(ex["ground_truth"])
	if _, ok := ex["ground_truth"].([]any); !ok {
		report.addIssue(maxIssues, "line %d: 'ground_truth' missing or not a list", lineIdx)
	} else {
		for i, v := range gt {
			if !isInt(v) {
				report.addIssue(maxIssues, "line %d: ground_truth[%d] is not an int (value=%v)", lineIdx, i, v)
			}
		}
	}

	meta, metaOK := ex["metadata"].(map[string]any)
	if !metaOK {
		report.addIssue(maxIssues, "line %d: 'metadata' missing or not an object", lineIdx)
	} else {
		if qType, _ := meta["question_type"].(string); !allowedQuestionTypes[qType] {
			report.addIssue(maxIssues, "line %d: metadata.question_type=%q not a known type", lineIdx, qType)
		}
	}

	// Cross-field checks.
	if len(options) > 0 && ex["ground_truth"] != nil {
		seen := make(map[string]bool, len(options))
		dup := false
		for _, opt := range options {
			s, ok := opt.(string)
			if !ok {
				continue
			}
			if seen[s] {
				dup = true
			}
			seen[s] = true
		}
		if dup {
			report.addIssue(maxIssues, "line %d: duplicate option strings within the same question", lineIdx)
		}

		seenIdx := make(map[int]bool)
		for _, v := range gt {
			if !isInt(v) {
				continue
			}
			idx := int(v.(float64))
			if idx < 0 || idx >= len(options) {
				report.addIssue(maxIssues, "line %d: ground_truth index %d out of bounds for %d options", lineIdx, idx, len(options))
			}
			if seenIdx[idx] {
				report.addIssue(maxIssues, "line %d: duplicate ground_truth index %d within the same example", lineIdx, idx)
			}
			seenIdx[idx] = true
		}
	}
}

// validateTenseConsistency checks that option phrasing matches the tense
// implied by the question type.
func validateTenseConsistency(report *ValidationReport, ex map[string]any, lineIdx, maxIssues int) {
	meta, _ := ex["metadata"].(map[string]any)
	qType, _ := meta["question_type"].(string)
	if !allowedQuestionTypes[qType] {
		return
	}

	expected := TenseConditional
	switch qType {
	case QuestionDescriptive:
		expected = TenseBase
	case QuestionPredictive:
		expected = TenseFuture
	}

	options := anySlice(ex["options"])
	tenses := make(map[Tense]bool)
	for i, opt := range options {
		s, ok := opt.(string)
		if !ok {
			continue
		}
		tense := DetectTense(s)
		tenses[tense] = true
		switch expected {
		case TenseBase:
			if tense != TenseBase {
				report.addIssue(maxIssues, "line %d: option[%d] has tense=%q but expected base for question_type=%q", lineIdx, i, tense, qType)
			}
		case TenseFuture:
			if tense == TenseConditional {
				report.addIssue(maxIssues, "line %d: option[%d] uses conditional 'would' but question_type is 'predictive'", lineIdx, i)
			}
		case TenseConditional:
			if tense == TenseFuture {
				report.addIssue(maxIssues, "line %d: option[%d] uses 'will' but question_type is %q", lineIdx, i, qType)
			}
		}
	}

	if len(options) > 0 {
		if expected == TenseFuture && !tenses[TenseFuture] {
			report.addIssue(maxIssues, "line %d: predictive question has no 'will' options", lineIdx)
		}
		if expected == TenseConditional && !tenses[TenseConditional] {
			report.addIssue(maxIssues, "line %d: counterfactual question has no 'would' options", lineIdx)
		}
	}
}

// validateQuestionIndices checks that question_index_within_shot values are
// dense and 0-based within each (sim_id, question_type) group.
func validateQuestionIndices(report *ValidationReport, groups map[questionGroup][]int, maxIssues int) {
	keys := make([]questionGroup, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a].SimID != keys[b].SimID {
			return keys[a].SimID < keys[b].SimID
		}
		return keys[a].QuestionType < keys[b].QuestionType
	})

	for _, key := range keys {
		idxs := groups[key]
		uniq := make(map[int]bool, len(idxs))
		for _, v := range idxs {
			uniq[v] = true
		}
		sorted := make([]int, 0, len(uniq))
		for v := range uniq {
			sorted = append(sorted, v)
		}
		sort.Ints(sorted)
		dense := true
		for i, v := range sorted {
			if v != i {
				dense = false
				break
			}
		}
		if !dense {
			report.addIssue(maxIssues, "sim_id=%s, question_type=%q: question_index_within_shot values %v not dense from 0", key.SimID, key.QuestionType, sorted)
		}
	}
}

func (r *ValidationReport) addIssue(maxIssues int, format string, args ...any) {
	if r.full(maxIssues) {
		return
	}
	r.Issues = append(r.Issues, fmt.Sprintf(format, args...))
}

func (r *ValidationReport) full(maxIssues int) bool {
	return maxIssues > 0 && len(r.Issues) >= maxIssues
}

func anySlice(v any) []any {
	s, _ := v.([]any)
	return s
}

// isInt reports whether a decoded JSON number is integral.
func isInt(v any) bool {
	f, ok := v.(float64)
	return ok && f == float64(int(f))
}
