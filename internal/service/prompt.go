package service

import (
	"fmt"
	"strings"

	"lernbuddy/internal/models"
)

// PromptParams collects everything the system prompt is built from
type PromptParams struct {
	Profile           *models.Profile
	Interests         []models.Interest
	Competency        *models.Competency
	Progress          *models.CompetencyProgress
	EngagementLevel   string
	IsPrioritySubject bool
	ActiveTask        *models.ActiveTask
}

// BuildSystemPrompt composes the buddy's system prompt. Pure function, no
// side effects.
func BuildSystemPrompt(p PromptParams) string {
	var b strings.Builder

	displayName := ""
	if p.Profile != nil {
		displayName = p.Profile.DisplayName
	}

	b.WriteString(`Du bist ein freundlicher Lernbegleiter (Buddy), kein Lehrer oder Tutor.

KERNIDENTITÄT:
- Du bist geduldig, ruhig, neugierig und ermutigend
- Du baust eine vertrauensvolle Beziehung auf
- Du machst Lernen zu einem freudvollen, druckfreien Erlebnis

KOMMUNIKATION:
- Verwende kurze, klare Sätze (max. 15 Wörter pro Satz)
- Stelle eine Frage auf einmal
- Verwende den Namen des Lerners: ` + displayName + `
- Sei explizit und direkt - keine Andeutungen
- Maximal 1-2 Emojis pro Nachricht 😊
- Maximal 120 Wörter pro Nachricht

ABSOLUTE VERBOTE:
- NIEMALS: Punkte, Scores, Noten, Level, Badges, Achievements erwähnen
- NIEMALS: "richtig", "falsch", "gut gemacht", "schneller" sagen
- NIEMALS: Vergleiche mit anderen oder Leistungsdruck erzeugen
- NIEMALS: Sarkasmus, Ironie oder Redewendungen verwenden
- NIEMALS: Mehrere Fragen auf einmal stellen

LOBE IMMER:
- Den Denkprozess: "Das war richtig gutes Denken!"
- Die Anstrengung: "Du hast das mit Ruhe durchdacht."
- Den Mut zu versuchen: "Das war ein guter Versuch."`)

	b.WriteString("\n\nPERSÖNLICHKEIT:\n")
	b.WriteString(personalityInstruction(p.Profile))

	b.WriteString("\n\nINTERESSEN DES LERNERS:\n")
	if len(p.Interests) > 0 {
		for _, interest := range p.Interests {
			fmt.Fprintf(&b, "- %s (Intensität: %d/10)\n", interest.Interest, interest.Intensity)
		}
	} else {
		b.WriteString("Noch keine Interessen bekannt. Frage neugierig danach!\n")
	}

	b.WriteString("\nVerbinde JEDE Lernaktivität mit den Interessen des Lerners.\n")
	b.WriteString(`Bei Frustration: "Lass uns eine Pause machen oder über etwas anderes reden."`)

	if p.Competency != nil {
		b.WriteString("\n\nAKTUELLES LERNZIEL (nur für dich, nenne dem Lerner niemals Lehrplan-Begriffe):\n")
		fmt.Fprintf(&b, "- Fach: %s (Klasse %d)\n", p.Competency.Subject, p.Competency.GradeLevel)
		fmt.Fprintf(&b, "- Kompetenz: %s\n", p.Competency.Title)
		if p.Competency.Description != "" {
			fmt.Fprintf(&b, "- Beschreibung: %s\n", p.Competency.Description)
		}
		if p.IsPrioritySubject {
			b.WriteString("- Dieses Fach braucht besondere Aufmerksamkeit. Baue es behutsam in das Gespräch ein.\n")
		}
		b.WriteString("Webe dieses Lernziel unauffällig in das Gespräch ein und verknüpfe es mit den Interessen.")
	}

	if p.Progress != nil && p.Progress.StrugglesCount > 0 {
		b.WriteString("\n\nWICHTIG: Der Lerner hatte mit diesem Thema bereits Schwierigkeiten.\n")
		b.WriteString("Erkläre es diesmal auf eine ANDERE Art: nutze ein neues Beispiel aus den Interessen, ein Bild im Kopf oder eine Alltagssituation.")
	}

	switch p.EngagementLevel {
	case models.EngagementFrustrated:
		b.WriteString("\n\nSTIMMUNG: Der Lerner wirkt gerade frustriert.\n")
		b.WriteString("Biete eine Pause oder einen Themenwechsel an. Kein neuer Lernstoff in dieser Nachricht.")
	case models.EngagementLow:
		b.WriteString("\n\nSTIMMUNG: Die Aufmerksamkeit lässt nach.\n")
		b.WriteString("Mache es leichter und kürzer. Stelle eine einfache, einladende Frage.")
	}

	if p.ActiveTask != nil {
		b.WriteString("\n\nAKTUELLE AUFGABE:\n")
		fmt.Fprintf(&b, "Der Lerner arbeitet gerade an dieser Aufgabe: %s\n", p.ActiveTask.Title)
		if p.ActiveTask.SimplifiedContent != "" {
			fmt.Fprintf(&b, "Aufgabentext:\n%s\n", p.ActiveTask.SimplifiedContent)
		}
		if p.ActiveTask.InteractiveElement != nil {
			fmt.Fprintf(&b, "Die Aufgabe enthält ein interaktives Element vom Typ %q: %s\n",
				p.ActiveTask.InteractiveElement.Type, elementInstruction(p.ActiveTask.InteractiveElement.Type))
		}
		b.WriteString("Führe den Lerner Schritt für Schritt durch die Aufgabe. Ein kleiner Schritt pro Nachricht. Gib niemals die Lösung direkt vor.")
	}

	return b.String()
}

func personalityInstruction(profile *models.Profile) string {
	personality := models.PersonalityFriendly
	if profile != nil && profile.BuddyPersonality != "" {
		personality = profile.BuddyPersonality
	}

	switch personality {
	case models.PersonalityEncouraging:
		return "Sei besonders ermutigend. Feiere jeden noch so kleinen Fortschritt."
	case models.PersonalityFunny:
		return "Streue gelegentlich altersgerechten Humor ein, ohne albern zu werden."
	case models.PersonalityProfessional:
		return "Bleibe sachlich und strukturiert, aber warm im Ton."
	default:
		return "Sei locker und freundschaftlich, wie ein guter Freund beim Lernen."
	}
}

func elementInstruction(elementType string) string {
	switch elementType {
	case models.ElementTable:
		return "Gehe die Tabelle Zeile für Zeile gemeinsam durch."
	case models.ElementChoices:
		return "Besprecht die Antwortmöglichkeiten nacheinander, ohne die Lösung zu verraten."
	default:
		return "Hilf beim Formulieren einer eigenen Antwort in kleinen Schritten."
	}
}
