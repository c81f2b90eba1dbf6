package model

// AllModels returns every model subject to database migration.
// New tables only need to be appended here, main.go stays untouched.
func AllModels() []interface{} {
	return []interface{}{
		&TransactionAudit{},
	}
}
