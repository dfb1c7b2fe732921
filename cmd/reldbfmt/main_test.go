package main

import "testing"

func TestLintReportsOkAndError(t *testing.T) {
	rows, failed := lint(`CREATE TABLE t (a INT); SELEKT * FROM t;`)
	if !failed {
		t.Fatal("expected a failure")
	}
	if len(rows) != 2 || rows[0][1] != "OK" || rows[1][1] != "ERROR" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestLintAllOk(t *testing.T) {
	rows, failed := lint(`SHOW TABLES; EXIT;`)
	if failed {
		t.Fatalf("unexpected failure: %+v", rows)
	}
	if len(rows) != 2 {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}
