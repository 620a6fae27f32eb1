package common

import "testing"

func TestNewPageTrimsOverfetch(t *testing.T) {
	page := NewPage([]int{1, 2, 3, 4}, 1, 3)
	if !page.NextPage {
		t.Fatal("expected next_page when an extra row was fetched")
	}
	if len(page.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(page.Items))
	}
}

func TestNewPageExactFit(t *testing.T) {
	page := NewPage([]int{1, 2, 3}, 2, 3)
	if page.NextPage {
		t.Fatal("expected no next_page for an exact page")
	}
	if page.Page != 2 || len(page.Items) != 3 {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestNewPageEmpty(t *testing.T) {
	page := NewPage[int](nil, 1, 3)
	if page.NextPage {
		t.Fatal("expected no next_page")
	}
	if page.Items == nil || len(page.Items) != 0 {
		t.Fatal("expected an empty non-nil items slice")
	}
}
