package telegram

import (
	"fmt"
	"strings"

	"github.com/scanbridge/scanbridge/internal/models"
)

// stopWord completes a conversation from any state, keeping whatever was
// collected so far.
const stopWord = "stop"

type stepResult struct {
	reply string
	// product is set when the conversation finished with something to add.
	product *models.Product
	done    bool
}

// advance feeds one user message into the entry conversation and mutates
// the session accordingly. A session that stops before a name was given
// completes without a product.
func advance(session *models.EntrySession, input string) stepResult {
	input = strings.TrimSpace(input)
	stopped := strings.EqualFold(input, stopWord)

	switch session.State {
	case models.SessionAwaitingName:
		if stopped {
			return stepResult{done: true, reply: "Okay, exiting /add command."}
		}
		session.Name = input
		session.State = models.SessionAwaitingBrand
		return stepResult{
			reply: fmt.Sprintf("Alright, %s it is. Now send me the brand of the product, or say %q to finish.", session.Name, stopWord),
		}

	case models.SessionAwaitingBrand:
		if stopped {
			return stepResult{done: true, product: sessionProduct(session, nil)}
		}
		session.Brand = input
		session.State = models.SessionAwaitingExtra
		return stepResult{
			reply: fmt.Sprintf("Perfect, so %s is made by %s. Now send me extra info (like size or amount) if you like, or say %q to finish.", session.Name, session.Brand, stopWord),
		}

	case models.SessionAwaitingExtra:
		if stopped {
			return stepResult{done: true, product: sessionProduct(session, nil)}
		}
		return stepResult{done: true, product: sessionProduct(session, &input)}

	default:
		return stepResult{done: true, reply: "Something went wrong, please start over with /add."}
	}
}

func sessionProduct(session *models.EntrySession, extra *string) *models.Product {
	product := &models.Product{
		EAN:   session.EAN,
		Name:  session.Name,
		Extra: extra,
	}
	if session.Brand != "" {
		brand := session.Brand
		product.Brand = &brand
	}
	return product
}
