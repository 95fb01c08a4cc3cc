package domain

// SeedData returns the default dataset used to initialize empty or unreadable
// storage. Each call returns a fresh copy.
func SeedData() AppData {
	return AppData{
		Boards: []Board{
			{
				ID:   "1",
				Name: "Tech Conference 2025",
				Contacts: []Contact{
					{
						ID:        "c1",
						Name:      "John Doe",
						Position:  "Software Engineer",
						Company:   "OpenAI",
						Location:  "San Francisco, USA",
						Interests: "AI, Machine Learning, Startups",
					},
					{
						ID:        "c2",
						Name:      "Jane Smith",
						Position:  "Product Manager",
						Company:   "Google",
						Location:  "New York, USA",
						Interests: "UX, Product Design, Agile",
					},
				},
			},
			{
				ID:   "2",
				Name: "Startup Meetup",
				Contacts: []Contact{
					{
						ID:        "c3",
						Name:      "Alex Brown",
						Position:  "CEO",
						Company:   "TechNova",
						Location:  "Berlin, Germany",
						Interests: "Entrepreneurship, Networking",
					},
				},
			},
		},
	}
}
