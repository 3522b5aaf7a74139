package services

import "github.com/yigit/taallocation/internal/app/models"

// LargeCourseThreshold is the enrolment from which a course may take two TAs in round 1
const LargeCourseThreshold = 100

// CapacityLimit returns how many TAs the course may hold in the given round.
// Round 1 caps every course at one TA, or two for large courses; later rounds
// allow up to the course's taRequired.
func CapacityLimit(round int, course *models.Course) int {
	if round <= 1 {
		if course.TotalStudents >= LargeCourseThreshold {
			return 2
		}
		return 1
	}
	return course.TARequired
}

// HasCapacity reports whether one more TA fits the course in the given round
func HasCapacity(round int, course *models.Course) bool {
	return len(course.TAAllocated) < CapacityLimit(round, course)
}
