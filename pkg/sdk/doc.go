// Package astrorag embeds the insight service in a Go program: the same
// retrieval, profile and generation pipeline the HTTP server runs, without
// the network hop.
//
//	client, _ := astrorag.New(ctx,
//	    astrorag.WithSQLite("profiles.db"),
//	    astrorag.WithOpenAI(os.Getenv("OPENAI_API_KEY"), "", ""),
//	)
//	defer client.Close()
//
//	p, _ := client.Predict(ctx, astrorag.PredictRequest{
//	    Name:       "Ritika",
//	    BirthDate:  "1995-08-20",
//	    BirthPlace: "Jaipur, India",
//	    Language:   "hi",
//	})
//	fmt.Println(p.Zodiac, p.Insight)
package astrorag
