package worker

// Worker は家事労働者のプロフィールを表すエンティティです。
type Worker struct {
	ID                 int64
	Name               string
	Age                int
	Contact            string
	EmploymentRecords  []EmploymentRecord
	SalaryDetails      SalaryDetails
	Attendance         *string
	PerformanceReviews *string
}

// EmploymentRecord は過去の雇用履歴 1 件です。
type EmploymentRecord struct {
	Employer string
	JobRole  string
	Months   int
}

// SalaryDetails は給与情報です。各項目は省略可能です。
// スライスは nil が「未指定」、空スライスが「空で指定」を意味します。
type SalaryDetails struct {
	SalaryAmount   *float64
	SalarySlips    []string
	CurrentMonths  *int
	PaymentHistory []float64
}

// Clone はエンティティの深いコピーを返します。
func (w *Worker) Clone() *Worker {
	if w == nil {
		return nil
	}
	copy := *w
	if w.EmploymentRecords != nil {
		copy.EmploymentRecords = append(make([]EmploymentRecord, 0, len(w.EmploymentRecords)), w.EmploymentRecords...)
	}
	copy.SalaryDetails = w.SalaryDetails.clone()
	copy.Attendance = cloneString(w.Attendance)
	copy.PerformanceReviews = cloneString(w.PerformanceReviews)
	return &copy
}

func (s SalaryDetails) clone() SalaryDetails {
	out := SalaryDetails{}
	if s.SalaryAmount != nil {
		amount := *s.SalaryAmount
		out.SalaryAmount = &amount
	}
	if s.SalarySlips != nil {
		out.SalarySlips = append(make([]string, 0, len(s.SalarySlips)), s.SalarySlips...)
	}
	if s.CurrentMonths != nil {
		months := *s.CurrentMonths
		out.CurrentMonths = &months
	}
	if s.PaymentHistory != nil {
		out.PaymentHistory = append(make([]float64, 0, len(s.PaymentHistory)), s.PaymentHistory...)
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
