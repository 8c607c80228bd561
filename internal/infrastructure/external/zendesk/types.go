package zendesk

import "time"

// Ticket is the subset of the Zendesk ticket object the hub reads
type Ticket struct {
	ID          int64      `json:"id"`
	URL         string     `json:"url"`
	Subject     string     `json:"subject"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Type        string     `json:"type"`
	RequesterID int64      `json:"requester_id"`
	AssigneeID  *int64     `json:"assignee_id"`
	GroupID     *int64     `json:"group_id"`
	Tags        []string   `json:"tags"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// User is a Zendesk end user or agent
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Group is a Zendesk agent group
type Group struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SearchResult is one page of a ticket search
type SearchResult struct {
	Tickets  []Ticket
	Count    int
	NextPage string
}

type searchResponse struct {
	Results []struct {
		Ticket
		ResultType string `json:"result_type"`
	} `json:"results"`
	Count    int     `json:"count"`
	NextPage *string `json:"next_page"`
}

type ticketResponse struct {
	Ticket Ticket `json:"ticket"`
}

type userResponse struct {
	User User `json:"user"`
}

type groupResponse struct {
	Group Group `json:"group"`
}
