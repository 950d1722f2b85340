// Package jobs implements the client side of an asynchronous remote job protocol:
// submit a job, poll its status until it reaches a terminal state, then fetch and
// unpack the result.
//
// # Architecture
//
// The package provides:
//   - Transport, the one-exchange-per-call interface to the remote service
//   - Poller, the bounded state machine that drives a submitted Job to a terminal state
//   - Runner, which chains submit, poll and fetch with spans, metrics and logs
//   - JoinTranscript and DecodeAudio, which normalize terminal payloads
//   - a typed error taxonomy (ConfigError, TransportError, RemoteJobFailure,
//     UnpackError, TimeoutError) matchable with errors.As
//
// A Job moves strictly forward through Submitted, Running and one of the terminal
// states Complete or Failed. The Poller adds TimedOut when its own deadline or
// attempt budget runs out.
//
// # Usage
//
//	p := jobs.NewPoller(transport, jobs.PollerConfig{Timeout: 10 * time.Minute})
//	job, err := transport.Submit(ctx, req)
//	if err != nil {
//	    return err
//	}
//	job, err = p.Drive(ctx, job)
//	if err != nil {
//	    return err // *TimeoutError, *TransportError or a context error
//	}
//	if job.Status == jobs.StatusFailed {
//	    return job.Failure()
//	}
//
// Facades for speech live in runtime/stt and runtime/tts.
package jobs
