package cmd

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/zkpipe/fibonacci-prover/kernel"
	"github.com/zkpipe/fibonacci-prover/prover"
)

var fListenAddr string

// webApiCmd runs the prover service that network mode delegates to. It
// speaks the JSON contract defined in the prover package.
var webApiCmd = &cobra.Command{
	Use:   "web-api",
	Short: "runs a web server for remote proof generation and verification",
	Run:   runApi,
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Health check passed",
	})
}

func handleSetup(backend prover.Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req prover.SetupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Program != kernel.Fibonacci.Name {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown program %q", req.Program)})
			return
		}
		vkey, err := backend.Setup(c.Request.Context(), kernel.Fibonacci)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, prover.SetupResponse{VKey: vkey.String()})
	}
}

func handleProve(backend prover.Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req prover.ProveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		system, err := prover.ParseProofSystem(req.System)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		vkey, err := backend.Setup(c.Request.Context(), kernel.Fibonacci)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		proof, err := backend.Prove(c.Request.Context(), kernel.Fibonacci, req.N, system)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to generate proof: %v", err)})
			return
		}
		if err := backend.Verify(proof, vkey); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to verify proof: %v", err)})
			return
		}

		c.JSON(http.StatusOK, prover.ProveResponse{
			Proof:        proof.Bytes,
			Raw:          proof.Raw,
			PublicValues: proof.PublicValues,
			VKey:         vkey.String(),
		})
	}
}

func handleVerify(backend prover.Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req prover.VerifyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		system, err := prover.ParseProofSystem(req.System)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		vkey, err := prover.ParseVerificationKey(req.VKey)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		proof := &prover.Proof{
			System:       system,
			Raw:          req.Raw,
			PublicValues: req.PublicValues,
		}
		if err := backend.Verify(proof, vkey); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("verification failed: %v", err)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func runApi(cmd *cobra.Command, args []string) {
	backend := prover.NewGnarkBackend(logger)

	router := gin.Default()
	router.GET("/health", healthCheck)
	router.POST("/setup", handleSetup(backend))
	router.POST("/proof", handleProve(backend))
	router.POST("/verify", handleVerify(backend))
	router.Run(fListenAddr)
}

func init() {
	rootCmd.AddCommand(webApiCmd)
	webApiCmd.Flags().StringVar(&fListenAddr, "listen", "0.0.0.0:8010", "address for the prover service to listen on")
}
