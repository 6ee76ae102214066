// Package triage runs the support-query aggregator in-process.
//
// A query is either a ticket id or free text. The client fetches the ticket
// conversation (ticket mode), then searches related tickets, searches the
// product documentation and asks a chat model for a summary, all in
// parallel and each under its own deadline. Whatever settles in time is
// merged into one Result; a failing backend only costs its own section.
//
//	client, _ := triage.New(
//	    triage.WithZendesk(triage.ZendeskConfig{
//	        Subdomain: "acme", Email: "bot@acme.io", APIToken: os.Getenv("ZENDESK_API_TOKEN"),
//	    }),
//	    triage.WithOpenAI(triage.OpenAIConfig{APIKey: os.Getenv("OPENAI_API_KEY")}),
//	    triage.WithDocSearch(triage.DocSearchConfig{Site: "doc.castsoftware.com"}),
//	)
//	res, err := client.Analyze(ctx, "#48213")
//	if errors.Is(err, triage.ErrOverallTimeout) {
//	    // nothing settled before the overall deadline
//	}
package triage
