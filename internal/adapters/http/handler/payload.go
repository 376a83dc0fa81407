package handler

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ogurasousui/worker-registry/internal/core/worker"
	"github.com/tidwall/gjson"
)

// fieldIssue はリクエスト検証エラー 1 件です。loc は ["body", "age"] のような位置を表します。
type fieldIssue struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

type workerResponse struct {
	ID                 int64                     `json:"id"`
	Name               string                    `json:"name"`
	Age                int                       `json:"age"`
	Contact            string                    `json:"contact"`
	EmploymentRecords  []employmentRecordPayload `json:"employment_records"`
	SalaryDetails      salaryDetailsPayload      `json:"salary_details"`
	Attendance         *string                   `json:"attendance"`
	PerformanceReviews *string                   `json:"performance_reviews"`
}

type employmentRecordPayload struct {
	Employer string `json:"employer"`
	JobRole  string `json:"job_role"`
	Months   int    `json:"months"`
}

type salaryDetailsPayload struct {
	SalaryAmount   *float64   `json:"salary_amount,omitempty"`
	SalarySlips    *[]string  `json:"salary_slips,omitempty"`
	CurrentMonths  *int       `json:"current_months,omitempty"`
	PaymentHistory *[]float64 `json:"payment_history,omitempty"`
}

func toWorkerResponse(w *worker.Worker) workerResponse {
	records := make([]employmentRecordPayload, 0, len(w.EmploymentRecords))
	for _, rec := range w.EmploymentRecords {
		records = append(records, employmentRecordPayload{
			Employer: rec.Employer,
			JobRole:  rec.JobRole,
			Months:   rec.Months,
		})
	}

	salary := salaryDetailsPayload{
		SalaryAmount:  w.SalaryDetails.SalaryAmount,
		CurrentMonths: w.SalaryDetails.CurrentMonths,
	}
	if w.SalaryDetails.SalarySlips != nil {
		slips := w.SalaryDetails.SalarySlips
		salary.SalarySlips = &slips
	}
	if w.SalaryDetails.PaymentHistory != nil {
		history := w.SalaryDetails.PaymentHistory
		salary.PaymentHistory = &history
	}

	return workerResponse{
		ID:                 w.ID,
		Name:               w.Name,
		Age:                w.Age,
		Contact:            w.Contact,
		EmploymentRecords:  records,
		SalaryDetails:      salary,
		Attendance:         w.Attendance,
		PerformanceReviews: w.PerformanceReviews,
	}
}

// parseWorker はボディをスキーマに照らして検証し、問題が無ければ Worker を組み立てます。
// 問題はすべて収集して返します。
func parseWorker(body []byte) (*worker.Worker, []fieldIssue) {
	if !utf8.Valid(body) || !gjson.ValidBytes(body) {
		return nil, []fieldIssue{{Loc: []any{"body"}, Msg: "invalid JSON body", Type: "value_error.jsondecode"}}
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, []fieldIssue{issueDict(loc("body"))}
	}

	p := &parser{}
	w := &worker.Worker{
		Name:               p.requiredString(root, "name", loc("body")),
		Age:                p.requiredInt(root, "age", loc("body")),
		Contact:            p.requiredString(root, "contact", loc("body")),
		EmploymentRecords:  p.employmentRecords(root, loc("body")),
		SalaryDetails:      p.salaryDetails(root, loc("body")),
		Attendance:         p.optionalString(root, "attendance", loc("body")),
		PerformanceReviews: p.optionalString(root, "performance_reviews", loc("body")),
	}

	if len(p.issues) > 0 {
		return nil, p.issues
	}
	return w, nil
}

type parser struct {
	issues []fieldIssue
}

func (p *parser) add(issue fieldIssue) {
	p.issues = append(p.issues, issue)
}

// required は必須項目を取り出します。欠落や null の場合は問題を記録して ok=false を返します。
func (p *parser) required(obj gjson.Result, field string, at []any) (gjson.Result, []any, bool) {
	here := append(clone(at), field)
	r := lookup(obj, field)
	if !r.Exists() {
		p.add(fieldIssue{Loc: here, Msg: "field required", Type: "value_error.missing"})
		return r, here, false
	}
	if r.Type == gjson.Null {
		p.add(fieldIssue{Loc: here, Msg: "none is not an allowed value", Type: "type_error.none.not_allowed"})
		return r, here, false
	}
	return r, here, true
}

func (p *parser) requiredString(obj gjson.Result, field string, at []any) string {
	r, here, ok := p.required(obj, field, at)
	if !ok {
		return ""
	}
	return p.str(r, here)
}

func (p *parser) requiredInt(obj gjson.Result, field string, at []any) int {
	r, here, ok := p.required(obj, field, at)
	if !ok {
		return 0
	}
	v, _ := p.integer(r, here)
	return v
}

func (p *parser) optionalString(obj gjson.Result, field string, at []any) *string {
	r := lookup(obj, field)
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}
	v := p.str(r, append(clone(at), field))
	return &v
}

func (p *parser) str(r gjson.Result, here []any) string {
	if r.Type != gjson.String {
		p.add(fieldIssue{Loc: here, Msg: "str type expected", Type: "type_error.str"})
		return ""
	}
	return r.Str
}

func (p *parser) integer(r gjson.Result, here []any) (int, bool) {
	if r.Type == gjson.Number {
		if n, ok := integralLiteral(r.Raw); ok {
			return int(n), true
		}
	}
	p.add(fieldIssue{Loc: here, Msg: "value is not a valid integer", Type: "type_error.integer"})
	return 0, false
}

// integralLiteral は JSON の数値リテラルを文字列のまま評価し、整数値なら int64 で返します。
// 35.0 や 3.5e1 は受け付け、35.5 や int64 に収まらない値は拒否します。
func integralLiteral(raw string) (int64, bool) {
	digits, neg := strings.CutPrefix(raw, "-")

	exp := 0
	if i := strings.IndexAny(digits, "eE"); i >= 0 {
		e, err := strconv.Atoi(digits[i+1:])
		if err != nil {
			return 0, false
		}
		exp, digits = e, digits[:i]
	}

	intPart, frac, _ := strings.Cut(digits, ".")
	all := intPart + frac
	digits = strings.TrimLeft(all, "0")
	if digits == "" {
		return 0, true
	}
	if exp > 1<<20 || exp < -(1<<20) {
		return 0, false
	}

	// point は先頭の 0 を除いた digits における小数点の位置です。
	point := len(intPart) + exp - (len(all) - len(digits))
	switch {
	case point <= 0:
		return 0, false
	case point < len(digits):
		if strings.TrimRight(digits[point:], "0") != "" {
			return 0, false
		}
		digits = digits[:point]
	case point-len(digits) > 19:
		return 0, false
	default:
		digits += strings.Repeat("0", point-len(digits))
	}

	if neg {
		digits = "-" + digits
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (p *parser) number(r gjson.Result, here []any) (float64, bool) {
	if r.Type != gjson.Number || math.IsInf(r.Num, 0) {
		p.add(fieldIssue{Loc: here, Msg: "value is not a valid float", Type: "type_error.float"})
		return 0, false
	}
	return r.Num, true
}

func (p *parser) employmentRecords(obj gjson.Result, at []any) []worker.EmploymentRecord {
	r, here, ok := p.required(obj, "employment_records", at)
	if !ok {
		return nil
	}
	if !r.IsArray() {
		p.add(issueList(here))
		return nil
	}

	items := r.Array()
	records := make([]worker.EmploymentRecord, 0, len(items))
	for i, item := range items {
		itemLoc := append(clone(here), i)
		if !item.IsObject() {
			p.add(issueDict(itemLoc))
			continue
		}
		records = append(records, worker.EmploymentRecord{
			Employer: p.requiredString(item, "employer", itemLoc),
			JobRole:  p.requiredString(item, "job_role", itemLoc),
			Months:   p.requiredInt(item, "months", itemLoc),
		})
	}
	return records
}

func (p *parser) salaryDetails(obj gjson.Result, at []any) worker.SalaryDetails {
	var out worker.SalaryDetails

	r, here, ok := p.required(obj, "salary_details", at)
	if !ok {
		return out
	}
	if !r.IsObject() {
		p.add(issueDict(here))
		return out
	}

	if v := lookup(r, "salary_amount"); v.Exists() && v.Type != gjson.Null {
		if amount, ok := p.number(v, append(clone(here), "salary_amount")); ok {
			out.SalaryAmount = &amount
		}
	}

	if v := lookup(r, "salary_slips"); v.Exists() && v.Type != gjson.Null {
		slipsLoc := append(clone(here), "salary_slips")
		if !v.IsArray() {
			p.add(issueList(slipsLoc))
		} else {
			out.SalarySlips = make([]string, 0)
			for i, item := range v.Array() {
				out.SalarySlips = append(out.SalarySlips, p.str(item, append(clone(slipsLoc), i)))
			}
		}
	}

	if v := lookup(r, "current_months"); v.Exists() && v.Type != gjson.Null {
		if months, ok := p.integer(v, append(clone(here), "current_months")); ok {
			out.CurrentMonths = &months
		}
	}

	if v := lookup(r, "payment_history"); v.Exists() && v.Type != gjson.Null {
		historyLoc := append(clone(here), "payment_history")
		if !v.IsArray() {
			p.add(issueList(historyLoc))
		} else {
			out.PaymentHistory = make([]float64, 0)
			for i, item := range v.Array() {
				amount, _ := p.number(item, append(clone(historyLoc), i))
				out.PaymentHistory = append(out.PaymentHistory, amount)
			}
		}
	}

	return out
}

// lookup はキーが重複している場合に最後の値を返します。
func lookup(obj gjson.Result, field string) gjson.Result {
	var found gjson.Result
	obj.ForEach(func(key, value gjson.Result) bool {
		if key.Str == field {
			found = value
		}
		return true
	})
	return found
}

func loc(parts ...any) []any {
	return parts
}

func clone(at []any) []any {
	return append([]any{}, at...)
}

func issueDict(at []any) fieldIssue {
	return fieldIssue{Loc: at, Msg: "value is not a valid dict", Type: "type_error.dict"}
}

func issueList(at []any) fieldIssue {
	return fieldIssue{Loc: at, Msg: "value is not a valid list", Type: "type_error.list"}
}
