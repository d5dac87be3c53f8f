package main

import "newznepal/internal/domain/post"

type sample struct {
	Title    string
	Summary  string
	Content  string
	Category post.Category
	ImageURL string
}

var samplePosts = []sample{
	{
		Title:    "PM Oli Holds Bilateral Meetings at SCO Summit 2025 in China",
		Summary:  "Prime Minister KP Sharma Oli conducts diplomatic meetings with regional leaders during the SCO Summit in Tianjin.",
		Content:  "Prime Minister KP Sharma Oli is participating in the Shanghai Cooperation Organization Summit in Tianjin, China, holding bilateral meetings on regional cooperation, trade and the Lipulekh route.\n\nMembers of Parliament have urged the government to adopt stronger diplomatic measures on long-standing territorial disputes.",
		Category: post.CategoryLatest,
		ImageURL: "https://images.unsplash.com/photo-1529107386315-e1a2ed48a620?auto=format&fit=crop&w=1600&q=80",
	},
	{
		Title:    "BREAKING: 4.1 Magnitude Earthquake Hits Near Nepal",
		Summary:  "A mild earthquake was recorded near the Nepal border. No casualties have been reported so far.",
		Content:  "The National Earthquake Monitoring and Research Center recorded a 4.1 magnitude tremor near the Nepal border this morning.\n\nAuthorities say no damage or casualties have been reported and residents are advised to follow standard safety guidance.",
		Category: post.CategoryBreaking,
		ImageURL: "https://images.unsplash.com/photo-1594736797933-d0fa2fe2c813?auto=format&fit=crop&w=1600&q=80",
	},
	{
		Title:    "Parliament Passes Environmental Protection Act",
		Summary:  "New legislation introduces stricter rules on pollution and deforestation with heavier penalties for violations.",
		Content:  "Parliament has unanimously passed a new Environmental Protection Act requiring impact assessments for major projects and raising fines for pollution.\n\nImplementation begins within six months with enforcement teams in all 77 districts.",
		Category: post.CategoryPolitics,
		ImageURL: "https://images.unsplash.com/photo-1441974231531-c6227db76b6e?auto=format&fit=crop&w=1600&q=80",
	},
	{
		Title:    "Nepal Wins South Asian Cricket Championship",
		Summary:  "The national team beat India by six wickets in the final to claim its first regional title.",
		Content:  "Nepal chased down a target of 267 in Colombo, with captain Rohit Paudel unbeaten on 89.\n\nThe team is expected to receive a hero's welcome on its return to Kathmandu.",
		Category: post.CategorySports,
		ImageURL: "https://images.unsplash.com/photo-1540747913346-19e32dc3e97e?auto=format&fit=crop&w=1600&q=80",
	},
	{
		Title:    "Nepal Stock Exchange Hits All-Time High",
		Summary:  "The NEPSE index crossed 3,000 points for the first time on the back of banking and hydropower stocks.",
		Content:  "NEPSE closed at 3,045.67 points, up 4.2 percent on the day, with the banking sector leading the rally.\n\nTurnover reached NPR 12.8 billion, the highest single-day volume this year.",
		Category: post.CategoryBusiness,
	},
	{
		Title:    "Kathmandu Film Festival Announces Record Lineup",
		Summary:  "Over 80 films from 30 countries will screen at this year's festival in the capital.",
		Content:  "Organisers of the Kathmandu International Film Festival have announced the largest lineup in the event's history, including a showcase of Nepali independent cinema.\n\nScreenings run for five days across three venues in the valley.",
		Category: post.CategoryEntertainment,
	},
}
