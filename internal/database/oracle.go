package database

// Oracle binds ":name" placeholders natively; sqlx leaves them untouched
// for the "godror" driver name.
import _ "github.com/godror/godror" // Oracle Driver
