package worker

import (
	"context"
	"fmt"
)

// Seed は workers を順番に登録します。空のテーブルに対して呼ぶと ID は 1 から振られます。
func Seed(ctx context.Context, repo Repository, workers []*Worker) error {
	for i, w := range workers {
		if _, err := repo.Create(ctx, w.Clone()); err != nil {
			return fmt.Errorf("worker: seed %d: %w", i, err)
		}
	}
	return nil
}

// SeedWorkers は起動時に投入する初期データを返します。呼び出しごとに新しい値を返します。
func SeedWorkers() []*Worker {
	return []*Worker{
		seedWorker("Alice Johnson", 35, "alice@example.com",
			[]EmploymentRecord{
				{Employer: "Smith Family", JobRole: "Housekeeper", Months: 12},
				{Employer: "Brown Family", JobRole: "Nanny", Months: 24},
			},
			1500, []string{"url_to_salary_slip_1", "url_to_salary_slip_2"}, 12,
			"96%", "Excellent"),
		seedWorker("Bob Smith", 42, "bob@example.com",
			[]EmploymentRecord{
				{Employer: "Anderson Family", JobRole: "Gardener", Months: 30},
				{Employer: "Miller Family", JobRole: "Driver", Months: 18},
			},
			2000, []string{"url_to_salary_slip_3", "url_to_salary_slip_4"}, 30,
			"98%", "Very Good"),
		seedWorker("Catherine Green", 29, "catherine@example.com",
			[]EmploymentRecord{
				{Employer: "Jones Family", JobRole: "Cook", Months: 20},
				{Employer: "Taylor Family", JobRole: "Housekeeper", Months: 10},
			},
			1800, []string{"url_to_salary_slip_5", "url_to_salary_slip_6"}, 20,
			"94%", "Good"),
		seedWorker("David Lee", 31, "david@example.com",
			[]EmploymentRecord{
				{Employer: "Williams Family", JobRole: "Driver", Months: 15},
				{Employer: "Harris Family", JobRole: "Gardener", Months: 25},
			},
			1700, []string{"url_to_salary_slip_7", "url_to_salary_slip_8"}, 15,
			"92%", "Satisfactory"),
	}
}

func seedWorker(name string, age int, contact string, records []EmploymentRecord, amount float64, slips []string, months int, attendance, review string) *Worker {
	return &Worker{
		Name:              name,
		Age:               age,
		Contact:           contact,
		EmploymentRecords: records,
		SalaryDetails: SalaryDetails{
			SalaryAmount:   &amount,
			SalarySlips:    slips,
			CurrentMonths:  &months,
			PaymentHistory: []float64{amount, amount, amount},
		},
		Attendance:         &attendance,
		PerformanceReviews: &review,
	}
}
