// Package printing sends a job's PDF files to the physical printer by
// shelling out to the configured print command, one file at a time.
package printing
