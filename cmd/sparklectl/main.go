package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cryptolu/sparkle/pkg/esch"
	"github.com/cryptolu/sparkle/pkg/schwaemm"
	"github.com/cryptolu/sparkle/pkg/trail"
	"github.com/cryptolu/sparkle/pkg/trailresult"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sparklectl",
		Short: "SPARKLE family toolkit — AEAD, hashing, and differential trail search",
	}

	rootCmd.AddCommand(newAEADCmd(), newHashCmd(), newTrailCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newAEADCmd() *cobra.Command {
	aeadCmd := &cobra.Command{
		Use:   "aead",
		Short: "Encrypt and decrypt with a SCHWAEMM instance",
	}

	var instanceName, keyHex, nonceHex, adHex, inputHex string

	sealCmd := &cobra.Command{
		Use:   "seal",
		Short: "Encrypt and authenticate a message, printing ciphertext||tag in hex",
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := schwaemmInstance(instanceName)
			if err != nil {
				return err
			}
			key, nonce, ad, plaintext, err := decodeAEADInputs(keyHex, nonceHex, adHex, inputHex)
			if err != nil {
				return err
			}
			out, err := schwaemm.Encrypt(inst, key, nonce, ad, plaintext)
			if err != nil {
				return err
			}
			fmt.Println(hex.EncodeToString(out))
			return nil
		},
	}

	openCmd := &cobra.Command{
		Use:   "open",
		Short: "Decrypt and verify ciphertext||tag, printing the plaintext in hex",
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := schwaemmInstance(instanceName)
			if err != nil {
				return err
			}
			key, nonce, ad, ctAndTag, err := decodeAEADInputs(keyHex, nonceHex, adHex, inputHex)
			if err != nil {
				return err
			}
			out, err := schwaemm.Decrypt(inst, key, nonce, ad, ctAndTag)
			if err != nil {
				return err
			}
			fmt.Println(hex.EncodeToString(out))
			return nil
		},
	}

	for _, c := range []*cobra.Command{sealCmd, openCmd} {
		c.Flags().StringVar(&instanceName, "instance", "SCHWAEMM256128", "SCHWAEMM instance name")
		c.Flags().StringVar(&keyHex, "key", "", "key, hex-encoded")
		c.Flags().StringVar(&nonceHex, "nonce", "", "nonce, hex-encoded")
		c.Flags().StringVar(&adHex, "ad", "", "associated data, hex-encoded")
		c.MarkFlagRequired("key")
		c.MarkFlagRequired("nonce")
	}
	sealCmd.Flags().StringVar(&inputHex, "plaintext", "", "plaintext, hex-encoded")
	openCmd.Flags().StringVar(&inputHex, "ciphertext", "", "ciphertext||tag, hex-encoded")

	aeadCmd.AddCommand(sealCmd, openCmd)
	return aeadCmd
}

func decodeAEADInputs(keyHex, nonceHex, adHex, inputHex string) (key, nonce, ad, input []byte, err error) {
	if key, err = hex.DecodeString(keyHex); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("--key: %w", err)
	}
	if nonce, err = hex.DecodeString(nonceHex); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("--nonce: %w", err)
	}
	if ad, err = hex.DecodeString(adHex); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("--ad: %w", err)
	}
	if input, err = hex.DecodeString(inputHex); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("input: %w", err)
	}
	return key, nonce, ad, input, nil
}

func schwaemmInstance(name string) (schwaemm.Instance, error) {
	switch strings.ToUpper(name) {
	case "SCHWAEMM128128":
		return schwaemm.Schwaemm128_128, nil
	case "SCHWAEMM256128":
		return schwaemm.Schwaemm256_128, nil
	case "SCHWAEMM192192":
		return schwaemm.Schwaemm192_192, nil
	case "SCHWAEMM256256":
		return schwaemm.Schwaemm256_256, nil
	default:
		return schwaemm.Instance{}, fmt.Errorf("unknown SCHWAEMM instance %q", name)
	}
}

func newHashCmd() *cobra.Command {
	var instanceName, inputHex string

	sumCmd := &cobra.Command{
		Use:   "sum",
		Short: "Hash a message with an ESCH instance, printing the digest in hex",
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := hex.DecodeString(inputHex)
			if err != nil {
				return fmt.Errorf("--message: %w", err)
			}
			switch strings.ToUpper(instanceName) {
			case "ESCH256":
				d := esch.Sum256(msg)
				fmt.Println(hex.EncodeToString(d[:]))
			case "ESCH384":
				d := esch.Sum384(msg)
				fmt.Println(hex.EncodeToString(d[:]))
			default:
				return fmt.Errorf("unknown ESCH instance %q", instanceName)
			}
			return nil
		},
	}
	sumCmd.Flags().StringVar(&instanceName, "instance", "ESCH256", "ESCH instance name")
	sumCmd.Flags().StringVar(&inputHex, "message", "", "message, hex-encoded")

	hashCmd := &cobra.Command{Use: "hash", Short: "Hash messages with ESCH"}
	hashCmd.AddCommand(sumCmd)
	return hashCmd
}

func newTrailCmd() *cobra.Command {
	var rotR, rotS []string
	var bestB []string
	var nrounds int
	var checkpointOut string
	var parallel int

	searchCmd := &cobra.Command{
		Use:   "search NROUNDS",
		Short: "Search for an optimal differential trail through NROUNDS ARX rounds",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("NROUNDS: %w", err)
				}
				nrounds = n
			}
			r, err := parseRotations(rotR, "r")
			if err != nil {
				return err
			}
			s, err := parseRotations(rotS, "s")
			if err != nil {
				return err
			}
			b, err := parseBestB(bestB, nrounds)
			if err != nil {
				return err
			}

			cfg := trail.Config{NRounds: nrounds, R: r, S: s, BestB: b}

			var res trail.Result
			var ok bool
			if parallel > 0 {
				res, ok = trail.ParallelSearch(cfg, parallel)
			} else {
				res, ok = trail.Search(cfg)
			}
			if !ok {
				fmt.Println("no trail found")
				os.Exit(2)
			}

			fmt.Print(trailresult.Format(res.Trail))

			if checkpointOut != "" {
				ckpt := &trailresult.Checkpoint{Config: cfg, Result: res, Found: true}
				if err := trailresult.Save(checkpointOut, ckpt); err != nil {
					return fmt.Errorf("saving checkpoint: %w", err)
				}
			}
			return nil
		},
	}
	searchCmd.Flags().StringSliceVar(&rotR, "r", nil, "four r rotation constants r0..r3")
	searchCmd.Flags().StringSliceVar(&rotS, "s", nil, "four s rotation constants s0..s3")
	searchCmd.Flags().StringSliceVar(&bestB, "best-b", nil, "NROUNDS-1 known-optimum bounds best_B[0..NROUNDS-2]")
	searchCmd.Flags().StringVar(&checkpointOut, "checkpoint", "", "save the result to this checkpoint file")
	searchCmd.Flags().IntVar(&parallel, "workers", 0, "run ParallelSearch with this many workers (0 = serial Search)")

	trailCmd := &cobra.Command{Use: "trail", Short: "Differential trail search over the ARX round"}
	trailCmd.AddCommand(searchCmd)
	return trailCmd
}

func parseRotations(vals []string, label string) ([4]uint32, error) {
	var out [4]uint32
	if len(vals) != 4 {
		return out, fmt.Errorf("--%s requires exactly 4 values, got %d", label, len(vals))
	}
	for i, v := range vals {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return out, fmt.Errorf("--%s[%d]: %w", label, i, err)
		}
		out[i] = uint32(n)
	}
	return out, nil
}

func parseBestB(vals []string, nrounds int) ([]int, error) {
	if len(vals) != nrounds-1 {
		return nil, fmt.Errorf("--best-b requires NROUNDS-1 = %d values, got %d", nrounds-1, len(vals))
	}
	out := make([]int, len(vals))
	for i, v := range vals {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("--best-b[%d]: %w", i, err)
		}
		out[i] = n
	}
	return out, nil
}
