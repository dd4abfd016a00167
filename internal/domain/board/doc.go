// Package board holds the pure view logic of the job board: building listing queries from
// filters, formatting listing badges and ages, expansion toggling, scrape defaults, and
// validation of server-supplied pagination cursors. Nothing here performs I/O.
package board
