// Package services holds the business logic behind the HTTP controllers.
//
// Services defined in this package:
//   - AllocationService: allocate, deallocate and freeze TAs, list the audit log
//   - RoundService: the active allocation round and round lifecycle
//   - CourseService: course reads, capacity and deletion cleanup
//   - StudentService: student reads and lookups
package services
