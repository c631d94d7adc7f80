/*
Package postgres manages our database connection. As part of the connection
process, we also ensure that all migrations have been run on the proper
database. The situation where the database is simply a target for some
testing has been considered as well. In this scenario, we are dropping the
public schema.

The *DB query builder wraps *gorm.DB so handlers and services deal in the
module's sentinel errors instead of driver error strings.
*/
package postgres
