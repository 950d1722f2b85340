package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AltairaLabs/speechkit/runtime/jobs"
	"github.com/AltairaLabs/speechkit/runtime/jobs/httptransport"
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Inspect jobs submitted with --no-wait",
}

var jobStatusCmd = &cobra.Command{
	Use:   "status <job-id>",
	Short: "Print the current status of a job",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobStatus,
}

var jobResultCmd = &cobra.Command{
	Use:   "result <job-id>",
	Short: "Wait for a job and print its result",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobResult,
}

var jobKind string

func init() {
	rootCmd.AddCommand(jobCmd)
	jobCmd.AddCommand(jobStatusCmd, jobResultCmd)
	jobCmd.PersistentFlags().StringVar(&jobKind, "kind", string(jobs.KindTranscribe), "Job kind: stt or tts")
}

func parseKind() (jobs.Kind, error) {
	kind := jobs.Kind(jobKind)
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q", jobs.ErrUnknownKind, jobKind)
	}
	return kind, nil
}

func runJobStatus(cmd *cobra.Command, args []string) error {
	kind, err := parseKind()
	if err != nil {
		return err
	}
	creds := settings.Spec.STT.Credentials()
	if kind == jobs.KindSynthesize {
		creds = settings.Spec.TTS.Credentials()
	}
	if err := creds.Validate(kind); err != nil {
		return err
	}

	job, err := httptransport.New(creds).GetStatus(cmd.Context(), kind, args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "%s %s (%s)\n", job.ID, job.Status, job.RawStatus); err != nil {
		return err
	}
	if job.ErrorDetail != "" {
		_, err = fmt.Fprintln(out, job.ErrorDetail)
	}
	return err
}

func runJobResult(cmd *cobra.Command, args []string) error {
	kind, err := parseKind()
	if err != nil {
		return err
	}
	a, err := newApp(cmd.Context(), settings)
	if err != nil {
		return err
	}

	if kind == jobs.KindSynthesize {
		res, err := a.synthesizer(nil).Resume(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printSynthesis(cmd, res)
	}
	res, err := a.transcriber(nil).Resume(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Text)
	return err
}
