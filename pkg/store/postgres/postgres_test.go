package postgres

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-admincustomizer/pkg/settings"
)

// newMockDB creates a sqlmock database with automatic cleanup and expectation checking.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

func TestGet(t *testing.T) {
	for _, tc := range []struct {
		name   string
		rows   *sqlmock.Rows
		want   settings.Blob
		wantOK bool
	}{
		{
			name:   "stored",
			rows:   sqlmock.NewRows([]string{"option_value"}).AddRow(`{"disable-comments":"1"}`),
			want:   settings.Blob{"disable-comments": "1"},
			wantOK: true,
		},
		{
			name: "missing",
			rows: sqlmock.NewRows([]string{"option_value"}),
			want: settings.Blob{},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			mock.ExpectQuery("SELECT option_value::text FROM admin_options WHERE option_name = \\$1").
				WithArgs("admin-ui").
				WillReturnRows(tc.rows)

			got, ok, err := NewWithDB(db).Get(context.Background(), "admin-ui")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("blob mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGetRejectsCorruptValue(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT option_value::text FROM admin_options").
		WithArgs("admin-ui").
		WillReturnRows(sqlmock.NewRows([]string{"option_value"}).AddRow(`not json`))

	if _, _, err := NewWithDB(db).Get(context.Background(), "admin-ui"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSet(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("INSERT INTO admin_options .+ ON CONFLICT \\(option_name\\) DO UPDATE").
		WithArgs("admin-ui", `{"smtp-host":"mail.example.com"}`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewWithDB(db).Set(context.Background(), "admin-ui", settings.Blob{"smtp-host": "mail.example.com"})
	if err != nil {
		t.Fatalf("set: %v", err)
	}
}

func TestSetWrapsError(t *testing.T) {
	db, mock := newMockDB(t)
	boom := errors.New("connection reset")
	mock.ExpectExec("INSERT INTO admin_options").WillReturnError(boom)

	if err := NewWithDB(db).Set(context.Background(), "admin-ui", settings.Blob{}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected up and down migrations, got %d", len(entries))
	}
}
