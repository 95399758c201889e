package grading

type Grader interface {
	Grade(req Request) Result
}
