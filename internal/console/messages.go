package console

const (
	promptRole      = "Are you a Librarian or Member? (or type 'exit' to quit): "
	promptID        = "Enter librarian ID: "
	promptChoice    = "Enter your choice (1-5): "
	promptMember    = "Press 1 to load all books \nPress 2 to search a book\n"
	promptSearchBy  = "Search by: 1 for Title, 2 for ISBN: "
	promptTitle     = "Enter book title: "
	promptISBN      = "Enter ISBN: "
	promptAuthor    = "Enter author: "
	promptYear      = "Enter publication year: "
	promptRemoveKey = "Enter ISBN of the book to remove: "

	librarianMenu = "\nLibrarian Menu:\n1. Add a book\n2. Remove a book\n3. Search for a book\n4. Display all books\n5. Exit\n"

	msgAccessDenied   = "Access denied"
	msgHello          = "Hello, %s\n"
	msgWelcomeMember  = "Welcome, Member!"
	msgRoleHint       = "Please enter either 'Librarian' or 'Member'."
	msgGoodbye        = "Goodbye!"
	msgInvalidChoice  = "Invalid choice. Please try again."
	msgInvalidNumber  = "Invalid input. Please enter a number."
	msgAdded          = "Book added successfully!"
	msgAddFailed      = "Failed to add book."
	msgRemoved        = "Book removed successfully!"
	msgRemoveFailed   = "Failed to remove book."
	msgNoBooks        = "No books found."
	msgResultsHeader  = "\nSearch Results:"
	msgResultLine     = "Title: %s, Author: %s, ISBN: %s, Status: %s\n"
	msgFrontDesk      = "Contact the librarian at the front desk for checkout or checkout details\n"
	msgCatalogOffline = "The catalog could not be loaded; the list above may be incomplete."
)
