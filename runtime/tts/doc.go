// Package tts synthesizes speech through the asynchronous text-to-speech job API.
//
// A Client submits text with a voice model, optionally polls the job to
// completion, and delivers the audio either as the service's hosted URL or,
// when the service answers inline, by spooling the decoded bytes through a
// scratch file into an artifacts.Store:
//
//	store, _ := local.NewFileStore(local.FileStoreConfig{BaseDir: "./artifacts"})
//	client := tts.NewClient(tts.DefaultConfig(), tts.WithArtifactStore(store))
//	s, err := client.Synthesize(ctx, tts.VoiceRequest{Text: "Selamat pagi"})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(s.Message(), s.Reference)
//
// Two voice models are well known: VoiceDimasFormal (male, the default) and
// VoiceOchaGentle (female).
package tts
