package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("row missing")
	err := Wrap(CodeNotFound, cause, "product not found")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected cause to survive Unwrap")
	}
	if err.Code() != CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %s", err.Code())
	}
}

func TestAsFindsTypedErrorInChain(t *testing.T) {
	inner := New(CodeConflict, "duplicate review")
	wrapped := fmt.Errorf("create review: %w", inner)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error in chain")
	}
	if typed.Code() != CodeConflict {
		t.Fatalf("expected CONFLICT, got %s", typed.Code())
	}
}

func TestConflictMapsToBadRequest(t *testing.T) {
	meta := MetadataFor(CodeConflict)
	if meta.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("conflict must surface as 400, got %d", meta.HTTPStatus)
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown code should map to 500, got %d", meta.HTTPStatus)
	}
}

func TestDumpExtractsPGFields(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "reviews_product_user_key",
		TableName:      "reviews",
		Detail:         "Key (product_id, user_id) already exists.",
	}
	err := Wrap(CodeDependency, pgErr, "insert review")

	dump := Dump(err)
	if dump.PGCode != "23505" {
		t.Fatalf("expected pg code, got %q", dump.PGCode)
	}
	if dump.PGConstraint != "reviews_product_user_key" {
		t.Fatalf("expected constraint name, got %q", dump.PGConstraint)
	}
	if len(dump.Chain) < 2 {
		t.Fatalf("expected chain to include wrapper and cause, got %v", dump.Chain)
	}
}
