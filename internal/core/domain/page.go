package domain

// PageRequest est une fenêtre 1-indexée sur un scan trié.
type PageRequest struct {
	Number int
	Size   int
}

// Validate rejette les pages invalides AVANT tout appel au store.
// Politique choisie : rejet explicite, pas de clamp silencieux.
func (p PageRequest) Validate() error {
	if p.Number < 1 || p.Size < 1 {
		return ErrInvalidPage
	}
	return nil
}

// Offset calcule le décalage : page n de taille s => (n-1)*s.
func (p PageRequest) Offset() int {
	return (p.Number - 1) * p.Size
}

// Page est un résultat paginé.
// Total compte les EDGES qui matchent le filtre, pas les entités résolues :
// une cible supprimée réduit Items sans réduire Total (comportement produit
// assumé, voir DESIGN.md).
type Page[T any] struct {
	Items []T
	Total int64
}
