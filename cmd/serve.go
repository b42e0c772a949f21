package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/cadence/chord"
	"github.com/jsphweid/cadence/config"
	"github.com/jsphweid/cadence/model"
	"github.com/jsphweid/cadence/pipeline"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveAddr string
var serveCfg *config.Config

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves progression validation over HTTP",
	Long:  `Serves progression validation over HTTP: POST /validate with a key and a list of chords.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

// InitServe prepares the handler state without binding a socket. The e2e
// tests drive HandleValidate directly through this.
func InitServe() error {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	serveCfg = cfg
	return nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{Error: msg})
}

func HandleValidate(w http.ResponseWriter, r *http.Request) {
	reqBody, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}

	var input model.ValidateRequestBody
	if err := json.Unmarshal(reqBody, &input); err != nil {
		writeError(w, http.StatusBadRequest, "could not unmarshal request body: "+err.Error())
		return
	}
	if len(input.Chords) == 0 {
		writeError(w, http.StatusBadRequest, "at least one chord is required")
		return
	}

	keySpec := input.Key
	if keySpec == "" {
		keySpec = serveCfg.Key
	}
	key, err := chord.ParseKey(keySpec)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rules, err := enabledRules(serveCfg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	verdicts := pipeline.ValidateSets(serveCfg, key, rules, input.Chords, logger)

	res := model.ValidateResponse{RunID: uuid.New().String(), Passed: true}
	for _, v := range verdicts {
		identity := "unidentified"
		if v.Identity != nil {
			identity = v.Identity.String()
		}
		if !v.Passed {
			res.Passed = false
		}
		res.Verdicts = append(res.Verdicts, model.VerdictResult{
			ChordIndex:    v.ChordIndex,
			Passed:        v.Passed,
			Identity:      identity,
			ViolatedRules: v.ViolatedRules,
		})
	}
	_ = json.NewEncoder(w).Encode(res)
}

func serve() error {
	if err := InitServe(); err != nil {
		return err
	}

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/validate", HandleValidate).Methods("POST")
	handler := cors.Default().Handler(router)

	logger.Info("serving validation endpoint", zap.String("addr", serveAddr))
	if err := http.ListenAndServe(serveAddr, handler); err != nil {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}
