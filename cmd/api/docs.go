// Command api serves the DVD rental store REST API.
//
// @title           DVD Rental API
// @version         1.0
// @description     Rental lifecycle, catalog, customers and reports for the DVD rental store.
// @BasePath        /
// @schemes         http
//
// @tag.name        rentals
// @tag.description Create, return, cancel and list rentals
// @tag.name        films
// @tag.description Catalog reads
// @tag.name        customers
// @tag.description Customer reads
// @tag.name        reports
// @tag.description Reporting queries
// @tag.name        health
// @tag.description Liveness and readiness probes
package main
