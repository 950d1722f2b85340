// Package stt transcribes audio through the asynchronous speech-to-text job API.
//
// A Client submits a transcription job, optionally polls it to completion,
// and joins the channel-0 segments of the result into a single transcript:
//
//	client := stt.NewClient(stt.Config{
//	    Credentials: jobs.Credentials{BaseURL: baseURL, APIKey: apiKey},
//	    Wait:        true,
//	})
//	t, err := client.Transcribe(ctx, jobs.Reference("https://example.com/call.wav"))
//	if err != nil {
//	    return err
//	}
//	fmt.Println(t.Text)
//
// Without Wait, Transcribe returns a pending Transcription whose JobID can be
// handed to Resume later. AsService adapts a Client to the synchronous
// Service interface for callers that hold raw audio bytes.
package stt
