package handler

import (
	"fmt"
	"strings"

	"github.com/ogurasousui/worker-registry/internal/core/worker"
)

// WorkerMessage は gRPC 上のワーカー表現です。スライスの null と [] は区別されます。
// 必須項目はポインタで受け取り、欠落を検出できるようにしています。
type WorkerMessage struct {
	ID                 int64                     `json:"id"`
	Name               *string                   `json:"name"`
	Age                *int                      `json:"age"`
	Contact            *string                   `json:"contact"`
	EmploymentRecords  []EmploymentRecordMessage `json:"employment_records"`
	SalaryDetails      *SalaryDetailsMessage     `json:"salary_details"`
	Attendance         *string                   `json:"attendance"`
	PerformanceReviews *string                   `json:"performance_reviews"`
}

type EmploymentRecordMessage struct {
	Employer *string `json:"employer"`
	JobRole  *string `json:"job_role"`
	Months   *int    `json:"months"`
}

type SalaryDetailsMessage struct {
	SalaryAmount   *float64  `json:"salary_amount"`
	SalarySlips    []string  `json:"salary_slips"`
	CurrentMonths  *int      `json:"current_months"`
	PaymentHistory []float64 `json:"payment_history"`
}

type GetWorkerRequest struct {
	ID int64 `json:"id"`
}

type CreateWorkerRequest struct {
	Worker *WorkerMessage `json:"worker"`
}

type ReplaceWorkerRequest struct {
	ID     int64          `json:"id"`
	Worker *WorkerMessage `json:"worker"`
}

type DeleteWorkerRequest struct {
	ID int64 `json:"id"`
}

type WorkerResponse struct {
	Worker *WorkerMessage `json:"worker"`
}

type DeleteWorkerResponse struct {
	Message string `json:"message"`
}

func toWorkerMessage(w *worker.Worker) *WorkerMessage {
	if w == nil {
		return nil
	}

	var records []EmploymentRecordMessage
	if w.EmploymentRecords != nil {
		records = make([]EmploymentRecordMessage, 0, len(w.EmploymentRecords))
		for _, rec := range w.EmploymentRecords {
			records = append(records, EmploymentRecordMessage{
				Employer: ptr(rec.Employer),
				JobRole:  ptr(rec.JobRole),
				Months:   ptr(rec.Months),
			})
		}
	}

	return &WorkerMessage{
		ID:                w.ID,
		Name:              ptr(w.Name),
		Age:               ptr(w.Age),
		Contact:           ptr(w.Contact),
		EmploymentRecords: records,
		SalaryDetails: &SalaryDetailsMessage{
			SalaryAmount:   w.SalaryDetails.SalaryAmount,
			SalarySlips:    w.SalaryDetails.SalarySlips,
			CurrentMonths:  w.SalaryDetails.CurrentMonths,
			PaymentHistory: w.SalaryDetails.PaymentHistory,
		},
		Attendance:         w.Attendance,
		PerformanceReviews: w.PerformanceReviews,
	}
}

// toDomainWorker は必須項目が揃っていることを確かめてから Worker に変換します。
// 欠落があれば worker.ErrInvalidWorker を包んだエラーを返します。
func toDomainWorker(m *WorkerMessage) (*worker.Worker, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: worker is required", worker.ErrInvalidWorker)
	}

	var missing []string
	need := func(present bool, field string) {
		if !present {
			missing = append(missing, field)
		}
	}
	need(m.Name != nil, "name")
	need(m.Age != nil, "age")
	need(m.Contact != nil, "contact")
	need(m.EmploymentRecords != nil, "employment_records")
	need(m.SalaryDetails != nil, "salary_details")
	for i, rec := range m.EmploymentRecords {
		need(rec.Employer != nil, fmt.Sprintf("employment_records[%d].employer", i))
		need(rec.JobRole != nil, fmt.Sprintf("employment_records[%d].job_role", i))
		need(rec.Months != nil, fmt.Sprintf("employment_records[%d].months", i))
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", worker.ErrInvalidWorker, strings.Join(missing, ", "))
	}

	records := make([]worker.EmploymentRecord, 0, len(m.EmploymentRecords))
	for _, rec := range m.EmploymentRecords {
		records = append(records, worker.EmploymentRecord{Employer: *rec.Employer, JobRole: *rec.JobRole, Months: *rec.Months})
	}

	return &worker.Worker{
		Name:              *m.Name,
		Age:               *m.Age,
		Contact:           *m.Contact,
		EmploymentRecords: records,
		SalaryDetails: worker.SalaryDetails{
			SalaryAmount:   m.SalaryDetails.SalaryAmount,
			SalarySlips:    m.SalaryDetails.SalarySlips,
			CurrentMonths:  m.SalaryDetails.CurrentMonths,
			PaymentHistory: m.SalaryDetails.PaymentHistory,
		},
		Attendance:         m.Attendance,
		PerformanceReviews: m.PerformanceReviews,
	}, nil
}

func ptr[T any](v T) *T {
	return &v
}
