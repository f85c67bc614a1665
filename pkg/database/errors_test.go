package database

import (
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/studyhub-api/pkg/config"
)

func TestViolationHelpers(t *testing.T) {
	unique := fmt.Errorf("create category: %w", &pq.Error{Code: "23505", Constraint: "categories_name_key"})
	fk := &pq.Error{Code: "23503"}

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsForeignKeyViolation(unique))
	assert.Equal(t, "categories_name_key", Constraint(unique))
	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsUniqueViolation(fmt.Errorf("plain")))
	assert.Empty(t, Constraint(nil))
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5432, User: "hub", Password: "secret", Name: "college_study_hub", SSLMode: "disable"})
	assert.Equal(t, "host=db port=5432 user=hub password=secret dbname=college_study_hub sslmode=disable", dsn)
}
