package helper

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
)

// PrettyPrint dumps v to stdout as indented JSON.
func PrettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Warn().Err(err).Msg("error pretty printing")
		return
	}
	fmt.Println(string(b))
}
