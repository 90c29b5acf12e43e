package library

import (
	"time"

	"github.com/mrlokans/reader/internal/entities"
)

func day(d int) time.Time {
	return time.Date(2024, time.May, d, 0, 0, 0, 0, time.UTC)
}

// SampleBooks returns the library shown on first start. Stored page counts
// are those of the printed editions; Open rebases them onto the page size
// in effect.
func SampleBooks() []entities.Book {
	books := []entities.Book{
		{
			ID:          "1",
			Title:       "The Great Gatsby",
			Author:      "F. Scott Fitzgerald",
			Cover:       "https://images.unsplash.com/photo-1544947950-fa07a98d237f?w=400&h=600&fit=crop",
			Content:     gatsbyExcerpt,
			Progress:    0.32,
			CurrentPage: 58,
			TotalPages:  180,
			Tags:        []string{"Classic", "Fiction"},
			LastRead:    day(20),
			DateAdded:   day(10),
		},
		{
			ID:          "2",
			Title:       "To Kill a Mockingbird",
			Author:      "Harper Lee",
			Cover:       "https://images.unsplash.com/photo-1541963463532-d68292c34b19?w=400&h=600&fit=crop",
			Content:     "When he was nearly thirteen, my brother Jem got his arm badly broken at the elbow.",
			Progress:    0.14,
			CurrentPage: 39,
			TotalPages:  281,
			Tags:        []string{"Classic", "Fiction"},
			LastRead:    day(25),
			DateAdded:   day(12),
		},
		{
			ID:          "3",
			Title:       "1984",
			Author:      "George Orwell",
			Cover:       "https://images.unsplash.com/photo-1531901599143-e9858737e9b4?w=400&h=600&fit=crop",
			Content:     "It was a bright cold day in April, and the clocks were striking thirteen.",
			Progress:    0.65,
			CurrentPage: 213,
			TotalPages:  328,
			Tags:        []string{"Dystopian", "Fiction"},
			LastRead:    day(15),
			DateAdded:   day(5),
		},
		{
			ID:          "4",
			Title:       "Pride and Prejudice",
			Author:      "Jane Austen",
			Cover:       "https://images.unsplash.com/photo-1610882648335-ced8fc8fa6b5?w=400&h=600&fit=crop",
			Content:     "It is a truth universally acknowledged, that a single man in possession of a good fortune, must be in want of a wife.",
			Progress:    0.08,
			CurrentPage: 35,
			TotalPages:  432,
			Tags:        []string{"Romance", "Classic"},
			LastRead:    day(18),
			DateAdded:   day(8),
		},
	}
	for i := range books {
		books[i].Highlights = []entities.Highlight{}
		books[i].Bookmarks = []entities.Bookmark{}
	}
	return books
}

func SampleFolders() []entities.Folder {
	return []entities.Folder{
		{ID: "1", Name: "Classics", BookIDs: []string{"1", "2", "4"}, CreatedAt: day(5)},
		{ID: "2", Name: "Dystopian", BookIDs: []string{"3"}, CreatedAt: day(6)},
	}
}

const gatsbyExcerpt = `Chapter 1

In my younger and more vulnerable years my father gave me some advice that I've carried with me ever since.

"Whenever you feel like criticizing anyone," he told me, "just remember that all the people in this world haven't had the advantages that you've had."

He didn't say any more, but we've always been unusually communicative in a reserved way, and I understood that he meant a great deal more than that. In consequence, I'm inclined to reserve all judgments, a habit that has opened up many curious natures to me and also made me the victim of not a few veteran bores.

The abnormal mind is quick to detect and attach itself to this quality when it appears in a normal person, and so it came about that in college I was unjustly accused of being a politician, because I was privy to the secret griefs of wild, unknown men.

Most of the big shore places were closed now and there were hardly any lights except the shadowy, moving glow of a ferryboat across the Sound. And as the moon rose higher the inessential houses began to melt away until gradually I became aware of the old island here that flowered once for Dutch sailors' eyes, a fresh, green breast of the new world.

Chapter 2

About half way between West Egg and New York the motor road hastily joins the railroad and runs beside it for a quarter of a mile, so as to shrink away from a certain desolate area of land. This is a valley of ashes, a fantastic farm where ashes grow like wheat into ridges and hills and grotesque gardens; where ashes take the forms of houses and chimneys and rising smoke and, finally, with a transcendent effort, of men who move dimly and already crumbling through the powdery air.

Occasionally a line of gray cars crawls along an invisible track, gives out a ghastly creak, and comes to rest, and immediately the ash-gray men swarm up with leaden spades and stir up an impenetrable cloud, which screens their obscure operations from your sight. But above the gray land and the spasms of bleak dust which drift endlessly over it, you perceive, after a moment, the eyes of Doctor T. J. Eckleburg.`
