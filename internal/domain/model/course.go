package model

// Course is a learning resource a profile can enroll in.
type Course struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Provider string `json:"provider"`
	Duration string `json:"duration"`
}

// SampleCourses seeds the course catalog on first read.
func SampleCourses() []Course {
	return []Course{
		{ID: "c1", Title: "Intro to Canadian Tech Entrepreneurship", Provider: "CanInnovate", Duration: "3 weeks"},
		{ID: "c2", Title: "Energy Systems & Policy (Canada)", Provider: "UofT x Industry", Duration: "6 weeks"},
		{ID: "c3", Title: "Scaling Data Centres in Cold Climates", Provider: "Industry Lab", Duration: "2 weeks"},
	}
}
