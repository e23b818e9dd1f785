package storage

// Run is one recorded comparison.
type Run struct {
	ID             int64
	RanAt          int64
	Start, End     int64
	PeriodsPerYear int
	Results        []RunResult
}

type RunResult struct {
	Group        string
	Symbol       string
	ExpenseRatio float64
	AnnualReturn float64
	FinalGrowth  float64
}

func (s *Store) RecordRun(r Run) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO runs(ran_at,start_day,end_day,periods_per_year) VALUES(?,?,?,?)`,
		r.RanAt, r.Start, r.End, r.PeriodsPerYear)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	for _, rr := range r.Results {
		if _, err := tx.Exec(`INSERT INTO run_results(run_id,grp,symbol,expense_ratio,annual_return,final_growth) VALUES(?,?,?,?,?,?)`,
			id, rr.Group, rr.Symbol, rr.ExpenseRatio, rr.AnnualReturn, rr.FinalGrowth); err != nil {
			return 0, err
		}
	}
	return id, tx.Commit()
}

// RecentRuns returns up to limit runs, newest first, with their results.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	rows, err := s.db.Query(`SELECT id,ran_at,start_day,end_day,periods_per_year FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.RanAt, &r.Start, &r.End, &r.PeriodsPerYear); err != nil {
			rows.Close()
			return nil, err
		}
		runs = append(runs, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		res, err := s.db.Query(`SELECT grp,symbol,expense_ratio,annual_return,final_growth FROM run_results WHERE run_id=? ORDER BY rowid ASC`, runs[i].ID)
		if err != nil {
			return nil, err
		}
		for res.Next() {
			var rr RunResult
			if err := res.Scan(&rr.Group, &rr.Symbol, &rr.ExpenseRatio, &rr.AnnualReturn, &rr.FinalGrowth); err != nil {
				res.Close()
				return nil, err
			}
			runs[i].Results = append(runs[i].Results, rr)
		}
		res.Close()
	}
	return runs, nil
}
