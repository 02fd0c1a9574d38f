package main

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseLine(t *testing.T) {
	testCases := []struct {
		name string
		line string
		key  string
		opts map[string]string
		err  string
	}{
		{"bare command", "all authors", "all authors", map[string]string{}, ""},
		{"options", "author by name --name Lev --surname Tolstoy", "author by name", map[string]string{"name": "Lev", "surname": "Tolstoy"}, ""},
		{"quoted value", `add book --title "War and Peace" --author-id a:1 --genre-id g:1`, "add book", map[string]string{"title": "War and Peace", "author-id": "a:1", "genre-id": "g:1"}, ""},
		{"missing value", "author by id --id", "", nil, "missing value for option --id"},
		{"stray argument", "author by id --id a:1 extra", "", nil, `unexpected argument "extra"`},
		{"unterminated quote", `add genre --name "novel`, "", nil, "closing quote"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			key, opts, err := parseLine(tc.line)
			if tc.err != "" {
				assert.ErrorContains(t, err, tc.err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.key, key)
			assert.Equal(t, tc.opts, opts)
		})
	}
}

func TestShellExecute(t *testing.T) {
	catalog := seededCatalog(t)
	sh := NewShell(zap.NewNop(), &ShellConfig{Prompt: "> "}, catalog.services)
	ctx := context.Background()

	run := func(line string) string {
		t.Helper()
		out, err := sh.Execute(ctx, line)
		require.NoError(t, err)
		return out
	}

	t.Run("help lists commands", func(t *testing.T) {
		out := run("help")
		for _, key := range []string{"all authors", "add book", "comments by book id", "update book title", "exit"} {
			assert.Contains(t, out, key)
		}
		assert.Contains(t, out, "Update the name of an author by ID")
	})

	t.Run("empty line", func(t *testing.T) {
		assert.Equal(t, "", run("   "))
	})

	t.Run("unknown command", func(t *testing.T) {
		assert.Equal(t, `unknown command "all readers". type help to list commands.`, run("all readers"))
	})

	t.Run("missing options", func(t *testing.T) {
		assert.Equal(t, "missing option(s): --name, --surname", run("add author"))
	})

	t.Run("counts", func(t *testing.T) {
		assert.Equal(t, "3", run("authors count"))
		assert.Equal(t, "4", run("genres count"))
		assert.Equal(t, "3", run("books count"))
		assert.Equal(t, "3", run("comments count"))
	})

	t.Run("duplicate author prints the domain message", func(t *testing.T) {
		assert.Equal(t, "Can not add author because author already exists!", run("add author --name Lev --surname Tolstoy"))
	})

	t.Run("referenced author cannot be deleted", func(t *testing.T) {
		tolstoy, err := catalog.services.Authors.GetByName(ctx, "Lev", "Tolstoy")
		require.NoError(t, err)
		assert.Equal(t, "You can not delete author because exists book with this author!", run("delete author --id "+tolstoy.ID))
	})

	t.Run("duplicate genre", func(t *testing.T) {
		assert.Equal(t, "Can not add genre because genre already exists!", run("add genre --name novel"))
	})

	t.Run("book lifecycle", func(t *testing.T) {
		tolkien, err := catalog.services.Authors.GetByName(ctx, "John", "Tolkien")
		require.NoError(t, err)
		fantasy, err := catalog.services.Genres.GetByName(ctx, "fantasy")
		require.NoError(t, err)

		out := run(`add book --title "The Lord of the Rings" --author-id ` + tolkien.ID + " --genre-id " + fantasy.ID)
		assert.True(t, strings.HasPrefix(out, "Book with title The Lord of the Rings successfully added with id b:"), out)

		out = run(`book by title --title "The Lord of the Rings"`)
		assert.Contains(t, out, "John Tolkien")
		assert.Contains(t, out, "fantasy")
		id := strings.SplitN(out, ",", 2)[0]

		out = run(`update book title --id ` + id + ` --new-title "The Fellowship of the Ring"`)
		assert.Equal(t, "Book with id "+id+" is successfully updated. Book's title is The Fellowship of the Ring", out)

		out = run(`add comment --content "Long read" --book-id ` + id)
		assert.True(t, strings.HasPrefix(out, "Comment successfully added with id c:"), out)
		assert.Contains(t, run("comments by book id --book-id "+id), "Long read")

		assert.Equal(t, "Book with this ID no longer exists", run("delete book --id "+id))
		assert.Equal(t, "3", run("comments count"))
	})

	t.Run("comment on unknown book", func(t *testing.T) {
		assert.Equal(t, "Can not add new Comment. Book by provided id is not found!", run("add comment --content x --book-id b:unknown"))
	})

	t.Run("empty listing", func(t *testing.T) {
		require.NoError(t, catalog.collections.Drop(ctx))
		assert.Equal(t, "No data in table 'Authors'", run("all authors"))
	})

	t.Run("exit", func(t *testing.T) {
		out, err := sh.Execute(ctx, "exit")
		assert.ErrorIs(t, err, ErrShellExit)
		assert.Equal(t, "bye", out)
	})
}

func TestShellRunWithoutTerminal(t *testing.T) {
	catalog := newTestCatalog(t)
	sh := NewShell(zap.NewNop(), &ShellConfig{Prompt: "> "}, catalog.services)
	sh.isTerminal = func() bool { return false }

	assert.NoError(t, sh.Run(context.Background()))
}

func TestAppRunShell(t *testing.T) {
	catalog := newTestCatalog(t)
	sh := NewShell(zap.NewNop(), &ShellConfig{Prompt: "> "}, catalog.services)
	sh.isTerminal = func() bool { return false }
	app := &App{logger: zap.NewNop(), shell: sh}

	t.Run("end of shell keeps the app running", func(t *testing.T) {
		err := app.RunShell(context.Background())()
		assert.NoError(t, err)
		assert.NotErrorIs(t, err, ErrShellExit)
	})

	t.Run("done context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.NoError(t, app.RunShell(ctx)())
	})
}
