// Package api exposes the HTTP submission surface of the print queue:
// enqueue generation jobs, accept PDF uploads, and read job and queue
// state. Handlers only enqueue; the workers do the actual generation and
// printing out of band.
package api
