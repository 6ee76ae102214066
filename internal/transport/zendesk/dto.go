package zendesk

type ticketDTO struct {
	ID          int64  `json:"id"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type ticketResponse struct {
	Ticket ticketDTO `json:"ticket"`
}

type commentDTO struct {
	ID        int64  `json:"id"`
	AuthorID  int64  `json:"author_id"`
	Body      string `json:"body"`
	PlainBody string `json:"plain_body"`
	Public    bool   `json:"public"`
}

type commentsResponse struct {
	Comments []commentDTO `json:"comments"`
}

type searchResultDTO struct {
	ID          int64  `json:"id"`
	ResultType  string `json:"result_type"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type searchResponse struct {
	Results []searchResultDTO `json:"results"`
	Count   int               `json:"count"`
}
